package model

import (
	"time"
)

// Card is a structured profile record (e.g. "LinkedIn", "Degree") assigned to
// a user. Read access belongs to the assignee, write access to admins.
type Card struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Type           string    `json:"type"`
	Progress       int       `json:"progress"`
	AssignedUserID *string   `json:"assigned_user_id"`
	CreatedBy      *string   `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Assignee name/email for the admin list view; populated by a join.
	AssignedUserName  *string `json:"assigned_user_name,omitempty"`
	AssignedUserEmail *string `json:"assigned_user_email,omitempty"`

	// Populated on detail fetch only.
	Details []CardDetail `json:"details,omitempty"`
	Files   []FileRecord `json:"files,omitempty"`
}

// CardDetail is one typed field of a card. The detail set of a card is
// ordered and always replaced wholesale on card update.
type CardDetail struct {
	ID         string  `json:"id,omitempty"`
	CardID     string  `json:"card_id,omitempty"`
	FieldName  string  `json:"field_name"`
	FieldValue string  `json:"field_value"`
	FileURL    *string `json:"file_url,omitempty"`
}

// FileRecord is the metadata row for an uploaded document. The bytes live in
// the blob store; only the returned URL is persisted here.
type FileRecord struct {
	ID         string    `json:"id"`
	CardID     string    `json:"card_id,omitempty"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileSize   *int64    `json:"file_size,omitempty"`
	MimeType   *string   `json:"mime_type,omitempty"`
	UploadedBy *string   `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
