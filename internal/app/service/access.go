package service

import (
	"profiledash/internal/domain/model"
)

// Access decisions are pure: no I/O, and they are always evaluated before the
// corresponding repository mutation so a denial leaves no side effects.

// CanReadCard: admins see everything, users only cards assigned to them.
func CanReadCard(user *model.User, card *model.Card) bool {
	if user.IsAdmin() {
		return true
	}
	return card.AssignedUserID != nil && *card.AssignedUserID == user.ID
}

// CanWriteCard: card metadata is admin-only. Ordinary users go through the
// narrower upload path instead (see CardService.AttachFile).
func CanWriteCard(user *model.User) bool {
	return user.IsAdmin()
}

// CanAttachFile: the assignee may add documents to their own card, admins to any.
func CanAttachFile(user *model.User, card *model.Card) bool {
	if user.IsAdmin() {
		return true
	}
	return card.AssignedUserID != nil && *card.AssignedUserID == user.ID
}

// CanDeleteUser is stricter than generic admin rights.
func CanDeleteUser(user *model.User) bool {
	return user.Role == model.RoleSuperAdmin
}
