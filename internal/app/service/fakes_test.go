package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"profiledash/internal/common"
	"profiledash/internal/domain/model"

	_ "github.com/mattn/go-sqlite3"
)

// openTxSource returns an in-memory database used purely as the transaction
// source for services under test; the fake repositories below keep all state
// in maps and ignore the *sql.Tx they receive.
func openTxSource(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open tx source: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeUserRepo struct {
	users map[string]*model.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	cp := *user
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return common.ErrConflict
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, tx *sql.Tx, id string) error {
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*model.Session // by token
	users    *fakeUserRepo
}

func newFakeSessionRepo(users *fakeUserRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.Session{}, users: users}
}

func (r *fakeSessionRepo) Create(ctx context.Context, tx *sql.Tx, session *model.Session) error {
	for _, s := range r.sessions {
		if s.UserID == session.UserID {
			return common.ErrConflict // UNIQUE(user_id)
		}
	}
	cp := *session
	cp.CreatedAt = time.Now()
	r.sessions[session.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(ctx context.Context, tx *sql.Tx, userID string) error {
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindUserByToken(ctx context.Context, token string) (*model.User, error) {
	s, ok := r.sessions[token]
	if !ok || s.Expired(time.Now()) {
		return nil, common.ErrNotFound
	}
	return r.users.FindByID(ctx, s.UserID)
}

func (r *fakeSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) countForUser(userID string) int {
	n := 0
	for _, s := range r.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

type fakeCardRepo struct {
	cards   map[string]*model.Card
	details map[string][]model.CardDetail // by card ID
	files   map[string][]model.FileRecord // by card ID
	order   []string                      // insertion order of card IDs
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{
		cards:   map[string]*model.Card{},
		details: map[string][]model.CardDetail{},
		files:   map[string][]model.FileRecord{},
	}
}

func (r *fakeCardRepo) List(ctx context.Context) ([]model.Card, error) {
	out := []model.Card{}
	// newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		if c, ok := r.cards[r.order[i]]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) ListByAssignee(ctx context.Context, userID string) ([]model.Card, error) {
	out := []model.Card{}
	for i := len(r.order) - 1; i >= 0; i-- {
		c, ok := r.cards[r.order[i]]
		if ok && c.AssignedUserID != nil && *c.AssignedUserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) FindByID(ctx context.Context, id string) (*model.Card, error) {
	c, ok := r.cards[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCardRepo) ListDetails(ctx context.Context, cardID string) ([]model.CardDetail, error) {
	return append([]model.CardDetail{}, r.details[cardID]...), nil
}

func (r *fakeCardRepo) ListFiles(ctx context.Context, cardID string) ([]model.FileRecord, error) {
	return append([]model.FileRecord{}, r.files[cardID]...), nil
}

func (r *fakeCardRepo) Create(ctx context.Context, tx *sql.Tx, card *model.Card) error {
	cp := *card
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.cards[card.ID] = &cp
	r.order = append(r.order, card.ID)
	return nil
}

func (r *fakeCardRepo) Update(ctx context.Context, tx *sql.Tx, card *model.Card) error {
	existing, ok := r.cards[card.ID]
	if !ok {
		return common.ErrNotFound
	}
	cp := *card
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	r.cards[card.ID] = &cp
	return nil
}

func (r *fakeCardRepo) ReplaceDetails(ctx context.Context, tx *sql.Tx, cardID string, details []model.CardDetail) error {
	r.details[cardID] = append([]model.CardDetail{}, details...)
	return nil
}

func (r *fakeCardRepo) ReplaceFiles(ctx context.Context, tx *sql.Tx, cardID string, files []model.FileRecord) error {
	r.files[cardID] = append([]model.FileRecord{}, files...)
	return nil
}

func (r *fakeCardRepo) Delete(ctx context.Context, tx *sql.Tx, cardID string) error {
	if _, ok := r.cards[cardID]; !ok {
		return common.ErrNotFound
	}
	delete(r.cards, cardID)
	delete(r.details, cardID)
	delete(r.files, cardID)
	return nil
}

func (r *fakeCardRepo) DeleteByAssignee(ctx context.Context, tx *sql.Tx, userID string) error {
	for id, c := range r.cards {
		if c.AssignedUserID != nil && *c.AssignedUserID == userID {
			delete(r.cards, id)
			delete(r.details, id)
			delete(r.files, id)
		}
	}
	return nil
}

func (r *fakeCardRepo) InsertFile(ctx context.Context, file *model.FileRecord) error {
	cp := *file
	cp.CreatedAt = time.Now()
	r.files[file.CardID] = append(r.files[file.CardID], cp)
	return nil
}
