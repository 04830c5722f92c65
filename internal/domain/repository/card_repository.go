package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"profiledash/internal/common"
	"profiledash/internal/domain/model"

	"github.com/google/uuid"
)

type CardRepository interface {
	// List returns every card, newest first, joined with the assignee's
	// name/email for the admin view.
	List(ctx context.Context) ([]model.Card, error)
	// ListByAssignee returns only cards assigned to the given user, newest first.
	ListByAssignee(ctx context.Context, userID string) ([]model.Card, error)
	FindByID(ctx context.Context, id string) (*model.Card, error)
	ListDetails(ctx context.Context, cardID string) ([]model.CardDetail, error)
	ListFiles(ctx context.Context, cardID string) ([]model.FileRecord, error)

	Create(ctx context.Context, tx *sql.Tx, card *model.Card) error
	Update(ctx context.Context, tx *sql.Tx, card *model.Card) error
	// ReplaceDetails deletes the full detail set of the card and inserts the
	// given one in order. Callers supply the complete desired set.
	ReplaceDetails(ctx context.Context, tx *sql.Tx, cardID string, details []model.CardDetail) error
	// ReplaceFiles has the same delete-then-insert semantics for file rows.
	ReplaceFiles(ctx context.Context, tx *sql.Tx, cardID string, files []model.FileRecord) error
	// Delete removes details and files first, then the card row.
	Delete(ctx context.Context, tx *sql.Tx, cardID string) error
	// DeleteByAssignee removes all cards assigned to a user together with
	// their details and files; part of the user-deletion cascade.
	DeleteByAssignee(ctx context.Context, tx *sql.Tx, userID string) error

	InsertFile(ctx context.Context, file *model.FileRecord) error
}

type pgCardRepository struct {
	db *sql.DB
}

func NewPgCardRepository(db *sql.DB) CardRepository {
	return &pgCardRepository{db: db}
}

const cardJoinedColumns = `c.id, c.title, c.description, c.type, c.progress, c.assigned_user_id,
	       c.created_by, c.created_at, c.updated_at, u.name, u.email`

func (r *pgCardRepository) List(ctx context.Context) ([]model.Card, error) {
	query := `SELECT ` + cardJoinedColumns + `
	          FROM cards c
	          LEFT JOIN users u ON c.assigned_user_id = u.id
	          ORDER BY c.created_at DESC, c.id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgCardRepository.List: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

func (r *pgCardRepository) ListByAssignee(ctx context.Context, userID string) ([]model.Card, error) {
	query := `SELECT ` + cardJoinedColumns + `
	          FROM cards c
	          LEFT JOIN users u ON c.assigned_user_id = u.id
	          WHERE c.assigned_user_id = $1
	          ORDER BY c.created_at DESC, c.id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgCardRepository.ListByAssignee: %w", err)
	}
	defer rows.Close()
	return scanCards(rows)
}

func scanCards(rows *sql.Rows) ([]model.Card, error) {
	cards := []model.Card{}
	for rows.Next() {
		var c model.Card
		var desc sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Title, &desc, &c.Type, &c.Progress, &c.AssignedUserID,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.AssignedUserName, &c.AssignedUserEmail,
		); err != nil {
			return nil, fmt.Errorf("scanCards: %w", err)
		}
		c.Description = desc.String
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *pgCardRepository) FindByID(ctx context.Context, id string) (*model.Card, error) {
	query := `SELECT ` + cardJoinedColumns + `
	          FROM cards c
	          LEFT JOIN users u ON c.assigned_user_id = u.id
	          WHERE c.id = $1`
	var c model.Card
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &desc, &c.Type, &c.Progress, &c.AssignedUserID,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.AssignedUserName, &c.AssignedUserEmail,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCardRepository.FindByID: %w", err)
	}
	c.Description = desc.String
	return &c, nil
}

func (r *pgCardRepository) ListDetails(ctx context.Context, cardID string) ([]model.CardDetail, error) {
	query := `SELECT id, card_id, field_name, field_value, file_url
	          FROM card_details WHERE card_id = $1 ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("pgCardRepository.ListDetails: %w", err)
	}
	defer rows.Close()

	details := []model.CardDetail{}
	for rows.Next() {
		var d model.CardDetail
		if err := rows.Scan(&d.ID, &d.CardID, &d.FieldName, &d.FieldValue, &d.FileURL); err != nil {
			return nil, fmt.Errorf("pgCardRepository.ListDetails scan: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *pgCardRepository) ListFiles(ctx context.Context, cardID string) ([]model.FileRecord, error) {
	query := `SELECT id, card_id, file_name, file_url, file_size, mime_type, uploaded_by, created_at
	          FROM files WHERE card_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("pgCardRepository.ListFiles: %w", err)
	}
	defer rows.Close()

	files := []model.FileRecord{}
	for rows.Next() {
		var f model.FileRecord
		if err := rows.Scan(&f.ID, &f.CardID, &f.FileName, &f.FileURL, &f.FileSize, &f.MimeType, &f.UploadedBy, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgCardRepository.ListFiles scan: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func (r *pgCardRepository) Create(ctx context.Context, tx *sql.Tx, card *model.Card) error {
	query := `INSERT INTO cards (id, title, description, type, progress, assigned_user_id, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.ExecContext(ctx, query,
		card.ID, card.Title, card.Description, card.Type, card.Progress, card.AssignedUserID, card.CreatedBy)
	if err != nil {
		return fmt.Errorf("pgCardRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCardRepository) Update(ctx context.Context, tx *sql.Tx, card *model.Card) error {
	query := `UPDATE cards
	          SET title = $1, description = $2, type = $3, progress = $4, assigned_user_id = $5, updated_at = now()
	          WHERE id = $6`
	res, err := tx.ExecContext(ctx, query,
		card.Title, card.Description, card.Type, card.Progress, card.AssignedUserID, card.ID)
	if err != nil {
		return fmt.Errorf("pgCardRepository.Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgCardRepository.Update rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCardRepository) ReplaceDetails(ctx context.Context, tx *sql.Tx, cardID string, details []model.CardDetail) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM card_details WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("pgCardRepository.ReplaceDetails delete: %w", err)
	}
	query := `INSERT INTO card_details (id, card_id, field_name, field_value, file_url, position)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	for i, d := range details {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, query, id, cardID, d.FieldName, d.FieldValue, d.FileURL, i); err != nil {
			return fmt.Errorf("pgCardRepository.ReplaceDetails insert: %w", err)
		}
	}
	return nil
}

func (r *pgCardRepository) ReplaceFiles(ctx context.Context, tx *sql.Tx, cardID string, files []model.FileRecord) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("pgCardRepository.ReplaceFiles delete: %w", err)
	}
	query := `INSERT INTO files (id, card_id, file_name, file_url, file_size, mime_type, uploaded_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, f := range files {
		id := f.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, query, id, cardID, f.FileName, f.FileURL, f.FileSize, f.MimeType, f.UploadedBy); err != nil {
			return fmt.Errorf("pgCardRepository.ReplaceFiles insert: %w", err)
		}
	}
	return nil
}

func (r *pgCardRepository) Delete(ctx context.Context, tx *sql.Tx, cardID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM card_details WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("pgCardRepository.Delete details: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE card_id = $1`, cardID); err != nil {
		return fmt.Errorf("pgCardRepository.Delete files: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, cardID)
	if err != nil {
		return fmt.Errorf("pgCardRepository.Delete card: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgCardRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCardRepository) DeleteByAssignee(ctx context.Context, tx *sql.Tx, userID string) error {
	queries := []string{
		`DELETE FROM card_details WHERE card_id IN (SELECT id FROM cards WHERE assigned_user_id = $1)`,
		`DELETE FROM files WHERE card_id IN (SELECT id FROM cards WHERE assigned_user_id = $1)`,
		`DELETE FROM cards WHERE assigned_user_id = $1`,
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return fmt.Errorf("pgCardRepository.DeleteByAssignee: %w", err)
		}
	}
	return nil
}

func (r *pgCardRepository) InsertFile(ctx context.Context, file *model.FileRecord) error {
	query := `INSERT INTO files (id, card_id, file_name, file_url, file_size, mime_type, uploaded_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.CardID, file.FileName, file.FileURL, file.FileSize, file.MimeType, file.UploadedBy)
	if err != nil {
		return fmt.Errorf("pgCardRepository.InsertFile: %w", err)
	}
	return nil
}
