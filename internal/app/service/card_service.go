package service

import (
	"context"
	"database/sql"

	"profiledash/internal/common"
	"profiledash/internal/domain/model"
	"profiledash/internal/domain/repository"

	"github.com/google/uuid"
)

// CardService is the role-filtered CRUD layer over cards, their detail
// fields and file records.
type CardService struct {
	cardRepo repository.CardRepository
	db       *sql.DB // For transactions
}

func NewCardService(cardRepo repository.CardRepository, db *sql.DB) *CardService {
	return &CardService{cardRepo: cardRepo, db: db}
}

type CreateCardRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Type           string             `json:"type"`
	Progress       *int               `json:"progress,omitempty"`
	AssignedUserID *string            `json:"assigned_user_id"`
	Details        []model.CardDetail `json:"details,omitempty"`
}

type UpdateCardRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Type           string             `json:"type"`
	Progress       int                `json:"progress"`
	AssignedUserID *string            `json:"assigned_user_id"`
	Details        []model.CardDetail `json:"details"`
	Files          []model.FileRecord `json:"files"`
}

// List returns every card for admins and only the actor's assigned cards
// otherwise, newest first in both cases.
func (s *CardService) List(ctx context.Context, actor *model.User) ([]model.Card, error) {
	if actor.IsAdmin() {
		return s.cardRepo.List(ctx)
	}
	return s.cardRepo.ListByAssignee(ctx, actor.ID)
}

// Get returns the card merged with its ordered details and files.
// Not-found wins over forbidden: an unknown id is 404 for everyone.
func (s *CardService) Get(ctx context.Context, actor *model.User, id string) (*model.Card, error) {
	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanReadCard(actor, card) {
		return nil, common.ErrForbidden
	}

	details, err := s.cardRepo.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	files, err := s.cardRepo.ListFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	card.Details = details
	card.Files = files
	return card, nil
}

func (s *CardService) Create(ctx context.Context, actor *model.User, req CreateCardRequest) (*model.Card, error) {
	if !CanWriteCard(actor) {
		return nil, common.ErrForbidden
	}
	if req.Title == "" {
		return nil, common.Errorf("title is required: %w", common.ErrValidation)
	}
	if req.Type == "" {
		return nil, common.Errorf("type is required: %w", common.ErrValidation)
	}
	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}
	if progress < 0 || progress > 100 {
		return nil, common.Errorf("progress must be between 0 and 100: %w", common.ErrValidation)
	}

	card := &model.Card{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		Progress:       progress,
		AssignedUserID: req.AssignedUserID,
		CreatedBy:      &actor.ID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.cardRepo.Create(ctx, tx, card); err != nil {
		return nil, err
	}
	if len(req.Details) > 0 {
		if err := s.cardRepo.ReplaceDetails(ctx, tx, card.ID, req.Details); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}
	card.Details = req.Details
	return card, nil
}

// Update replaces the card's scalar fields and its complete detail and file
// sets. Replacement is delete-then-insert inside one transaction: partial
// failure rolls back fully, callers must always send the full desired sets.
func (s *CardService) Update(ctx context.Context, actor *model.User, id string, req UpdateCardRequest) error {
	if !CanWriteCard(actor) {
		return common.ErrForbidden
	}
	if req.Title == "" {
		return common.Errorf("title is required: %w", common.ErrValidation)
	}
	if req.Type == "" {
		return common.Errorf("type is required: %w", common.ErrValidation)
	}
	if req.Progress < 0 || req.Progress > 100 {
		return common.Errorf("progress must be between 0 and 100: %w", common.ErrValidation)
	}

	card := &model.Card{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		Type:           req.Type,
		Progress:       req.Progress,
		AssignedUserID: req.AssignedUserID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.cardRepo.Update(ctx, tx, card); err != nil {
		return err
	}
	if err := s.cardRepo.ReplaceDetails(ctx, tx, id, req.Details); err != nil {
		return err
	}
	if err := s.cardRepo.ReplaceFiles(ctx, tx, id, req.Files); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *CardService) Delete(ctx context.Context, actor *model.User, id string) error {
	if !CanWriteCard(actor) {
		return common.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if err := s.cardRepo.Delete(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return common.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AuthorizeAttach checks card existence and upload rights without writing
// anything. The upload handler calls it before bytes reach the blob store so
// a denied upload has zero side effects.
func (s *CardService) AuthorizeAttach(ctx context.Context, actor *model.User, cardID string) error {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return err
	}
	if !CanAttachFile(actor, card) {
		return common.ErrForbidden
	}
	return nil
}

// AttachFile records an uploaded document against a card. This is the one
// write path open to non-admins: the assignee of the card may use it.
func (s *CardService) AttachFile(ctx context.Context, actor *model.User, cardID string, file model.FileRecord) (*model.FileRecord, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !CanAttachFile(actor, card) {
		return nil, common.ErrForbidden
	}
	if file.FileName == "" || file.FileURL == "" {
		return nil, common.Errorf("file name and url are required: %w", common.ErrValidation)
	}

	file.ID = uuid.NewString()
	file.CardID = cardID
	file.UploadedBy = &actor.ID
	if err := s.cardRepo.InsertFile(ctx, &file); err != nil {
		return nil, err
	}
	return &file, nil
}
