package service

import (
	"context"
	"database/sql"
	"strings"

	"profiledash/internal/common"
	"profiledash/internal/common/security"
	"profiledash/internal/domain/model"
	"profiledash/internal/domain/repository"

	"github.com/google/uuid"
)

// UserService is the credential store plus the admin user-management
// operations. Role checks happen here, before any repository call.
type UserService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cardRepo    repository.CardRepository
	db          *sql.DB // For transactions
}

func NewUserService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	cardRepo repository.CardRepository,
	db *sql.DB,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cardRepo:    cardRepo,
		db:          db,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (s *UserService) List(ctx context.Context, actor *model.User) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].HashedPassword = "" // Never expose the credential
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, actor *model.User, id string) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) Create(ctx context.Context, actor *model.User, req CreateUserRequest) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, common.Errorf("name, email, password and role are required: %w", common.ErrValidation)
	}
	if !model.ValidRole(req.Role) {
		return nil, common.Errorf("unknown role %q: %w", req.Role, common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, common.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a duplicate email
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor *model.User, id string, req UpdateUserRequest) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, common.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = strings.TrimSpace(strings.ToLower(*req.Email))
	}
	if req.Role != nil && *req.Role != "" {
		if !model.ValidRole(*req.Role) {
			return nil, common.Errorf("unknown role %q: %w", *req.Role, common.ErrValidation)
		}
		user.Role = *req.Role
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := security.HashPassword(*req.Password)
		if err != nil {
			return nil, common.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// Delete removes a user and everything that references them: sessions first,
// then the assigned cards with their details and files, then the user row.
// The whole cascade is one transaction so a crash mid-way leaves nothing
// dangling. Only superadmins may delete users.
func (s *UserService) Delete(ctx context.Context, actor *model.User, id string) error {
	if !CanDeleteUser(actor) {
		return common.ErrForbidden
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.sessionRepo.DeleteByUserID(ctx, tx, id); err != nil {
		return err
	}
	if err := s.cardRepo.DeleteByAssignee(ctx, tx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
