package model

import "time"

// Category groups a user's documents and maps one-to-one to a Paperless
// document type. DocumentTypeID is the remote identifier used when
// submitting or re-typing documents.
type Category struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	DocumentTypeID int       `json:"document_type_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
