package model

import "time"

// Status is the closed set of lifecycle states a document moves through
// while its file is processed by the remote Paperless instance.
type Status string

const (
	// StatusSubmitted means the file was accepted by Paperless and a task
	// handle was stored, but no progress has been observed yet.
	StatusSubmitted Status = "SUBMITTED"
	// StatusRunning means Paperless reported the task as in progress.
	StatusRunning Status = "RUNNING"
	// StatusSucceeded means processing finished and a remote document id
	// has been assigned.
	StatusSucceeded Status = "SUCCEEDED"
	// StatusFailed means Paperless reported the task as failed.
	StatusFailed Status = "FAILED"
)

// Terminal reports whether no further transitions are expected for the
// status, short of an explicit re-submission.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// UnassignedDocumentID is the sentinel stored while Paperless has not yet
// assigned a document id to a submission.
const UnassignedDocumentID = -1

// ContentURLProcessing is the placeholder stored in ContentURL until the
// document reaches StatusSucceeded and a real download address is known.
const ContentURLProcessing = "PROCESSING"

// Document represents one user upload tracked through remote processing.
// It is a pure domain model shared across layers; only identifiers and
// lifecycle are persisted, remote metadata is always fetched live.
type Document struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id"`
	TaskID      string    `json:"task_id"`
	DocumentID  int       `json:"document_id"`
	ContentURL  string    `json:"content_url"`
	Status      Status    `json:"status"`
	StoragePath string    `json:"-"`
	IsImportant bool      `json:"is_important"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
