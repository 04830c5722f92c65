package service

import (
	"context"
	"errors"
	"testing"

	"profiledash/internal/common"
	"profiledash/internal/domain/model"
)

func newCardService(t *testing.T) (*CardService, *fakeCardRepo) {
	t.Helper()
	cards := newFakeCardRepo()
	return NewCardService(cards, openTxSource(t)), cards
}

func TestCardListFiltersByRole(t *testing.T) {
	svc, _ := newCardService(t)
	ctx := context.Background()
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}
	alice := &model.User{ID: "alice", Role: model.RoleUser}
	bob := &model.User{ID: "bob", Role: model.RoleUser}

	_, err := svc.Create(ctx, admin, CreateCardRequest{
		Title: "LinkedIn", Type: "LinkedIn", AssignedUserID: strPtr("alice"),
	})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if _, err := svc.Create(ctx, admin, CreateCardRequest{Title: "Degree", Type: "Degree"}); err != nil {
		t.Fatalf("create card: %v", err)
	}

	aliceCards, err := svc.List(ctx, alice)
	if err != nil {
		t.Fatalf("list as alice: %v", err)
	}
	if len(aliceCards) != 1 || aliceCards[0].Title != "LinkedIn" {
		t.Fatalf("alice should see exactly her card, got %+v", aliceCards)
	}
	for _, c := range aliceCards {
		if c.AssignedUserID == nil || *c.AssignedUserID != alice.ID {
			t.Fatalf("list leaked foreign card %+v to a regular user", c)
		}
	}

	bobCards, err := svc.List(ctx, bob)
	if err != nil {
		t.Fatalf("list as bob: %v", err)
	}
	if len(bobCards) != 0 {
		t.Fatalf("bob should see no cards, got %d", len(bobCards))
	}

	adminCards, err := svc.List(ctx, admin)
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if len(adminCards) != 2 {
		t.Fatalf("admin should see all cards, got %d", len(adminCards))
	}
}

func TestCardCreateValidation(t *testing.T) {
	svc, _ := newCardService(t)
	ctx := context.Background()
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}
	user := &model.User{ID: "u1", Role: model.RoleUser}
	bad := 120

	tests := []struct {
		name    string
		actor   *model.User
		req     CreateCardRequest
		wantErr error
	}{
		{"missing title", admin, CreateCardRequest{Type: "Degree"}, common.ErrValidation},
		{"missing type", admin, CreateCardRequest{Title: "Degree"}, common.ErrValidation},
		{"progress out of range", admin, CreateCardRequest{Title: "x", Type: "y", Progress: &bad}, common.ErrValidation},
		{"non-admin forbidden", user, CreateCardRequest{Title: "x", Type: "y"}, common.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.actor, tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Progress defaults to zero when omitted.
	card, err := svc.Create(ctx, admin, CreateCardRequest{Title: "x", Type: "y"})
	if err != nil {
		t.Fatalf("Create() valid card: %v", err)
	}
	if card.Progress != 0 {
		t.Fatalf("progress should default to 0, got %d", card.Progress)
	}
}

func TestCardGetAccess(t *testing.T) {
	svc, _ := newCardService(t)
	ctx := context.Background()
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}
	alice := &model.User{ID: "alice", Role: model.RoleUser}
	bob := &model.User{ID: "bob", Role: model.RoleUser}

	card, err := svc.Create(ctx, admin, CreateCardRequest{
		Title: "LinkedIn", Type: "LinkedIn", AssignedUserID: strPtr("alice"),
		Details: []model.CardDetail{{FieldName: "url", FieldValue: "https://linkedin.com/in/alice"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, alice, card.ID)
	if err != nil {
		t.Fatalf("assignee get: %v", err)
	}
	if len(got.Details) != 1 || got.Details[0].FieldName != "url" {
		t.Fatalf("details missing from get: %+v", got.Details)
	}

	if _, err := svc.Get(ctx, bob, card.ID); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("stranger get error = %v, want forbidden", err)
	}
	if _, err := svc.Get(ctx, admin, "no-such-card"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("unknown card error = %v, want not found", err)
	}
}

func TestCardUpdateReplacesDetailSet(t *testing.T) {
	svc, cards := newCardService(t)
	ctx := context.Background()
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}

	card, err := svc.Create(ctx, admin, CreateCardRequest{
		Title: "Degree", Type: "Degree",
		Details: []model.CardDetail{
			{FieldName: "school", FieldValue: "MIT"},
			{FieldName: "year", FieldValue: "2020"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Empty details array wipes the stored set entirely.
	err = svc.Update(ctx, admin, card.ID, UpdateCardRequest{
		Title: "Degree", Type: "Degree", Progress: 50,
		Details: []model.CardDetail{}, Files: []model.FileRecord{},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	remaining, _ := cards.ListDetails(ctx, card.ID)
	if len(remaining) != 0 {
		t.Fatalf("details not cleared by empty replacement, got %d", len(remaining))
	}
	updated, _ := cards.FindByID(ctx, card.ID)
	if updated.Progress != 50 {
		t.Fatalf("scalar update lost, progress = %d", updated.Progress)
	}
}

func TestCardDeleteCascades(t *testing.T) {
	svc, cards := newCardService(t)
	ctx := context.Background()
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}
	user := &model.User{ID: "u1", Role: model.RoleUser}

	card, err := svc.Create(ctx, admin, CreateCardRequest{
		Title: "Degree", Type: "Degree",
		Details: []model.CardDetail{{FieldName: "school", FieldValue: "MIT"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, user, card.ID); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("non-admin delete error = %v, want forbidden", err)
	}
	if err := svc.Delete(ctx, admin, card.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := cards.FindByID(ctx, card.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("card survived delete")
	}
	if d, _ := cards.ListDetails(ctx, card.ID); len(d) != 0 {
		t.Fatalf("details survived delete")
	}
}

func TestAttachFile(t *testing.T) {
	svc, cards := newCardService(t)
	ctx := context.Background()
	admin := &model.User{ID: "a1", Role: model.RoleAdmin}
	alice := &model.User{ID: "alice", Role: model.RoleUser}
	bob := &model.User{ID: "bob", Role: model.RoleUser}

	card, err := svc.Create(ctx, admin, CreateCardRequest{
		Title: "LinkedIn", Type: "LinkedIn", AssignedUserID: strPtr("alice"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, err := svc.AttachFile(ctx, alice, card.ID, model.FileRecord{
		FileName: "cv.pdf", FileURL: "https://blob.example/cv.pdf",
	})
	if err != nil {
		t.Fatalf("assignee attach: %v", err)
	}
	if stored.UploadedBy == nil || *stored.UploadedBy != alice.ID {
		t.Fatalf("uploaded_by not recorded: %+v", stored)
	}

	if _, err := svc.AttachFile(ctx, bob, card.ID, model.FileRecord{
		FileName: "x.pdf", FileURL: "https://blob.example/x.pdf",
	}); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("stranger attach error = %v, want forbidden", err)
	}
	if err := svc.AuthorizeAttach(ctx, bob, card.ID); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("AuthorizeAttach error = %v, want forbidden", err)
	}

	files, _ := cards.ListFiles(ctx, card.ID)
	if len(files) != 1 {
		t.Fatalf("expected one stored file record, got %d", len(files))
	}
}
