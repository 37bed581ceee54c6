package repository

import (
	"context"

	"github.com/llsaimur/papertrails/internal/model"
)

// DocumentFilter narrows List results. Zero values mean "no filter".
type DocumentFilter struct {
	CategoryID    string
	ImportantOnly bool
}

// DocumentRepository defines data access for upload records using SQL queries
// only. No business logic here — strictly persistence operations. All lookups
// are scoped by the owning user.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, scoped to the owner.
	FindByID(ctx context.Context, userID, id string) (*model.Document, error)

	// FindByTaskID returns the document tracking the given task handle.
	FindByTaskID(ctx context.Context, userID, taskID string) (*model.Document, error)

	// List returns a filtered, paginated list ordered by created_at
	// descending, plus the total row count for the filter.
	List(ctx context.Context, userID string, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// Update rewrites the mutable columns of an existing record.
	Update(ctx context.Context, doc *model.Document) error

	// MarkRunning advances a SUBMITTED record to RUNNING. It reports whether
	// the row was updated; a record in any other state is left untouched.
	MarkRunning(ctx context.Context, userID, id string) (bool, error)

	// Finalize applies a terminal transition (SUCCEEDED or FAILED) together
	// with the remote document id and content URL, but only while the record
	// is still SUBMITTED or RUNNING. The conditional write is what keeps two
	// concurrent polls from both applying a terminal transition: the loser
	// sees zero rows affected and gets false.
	Finalize(ctx context.Context, userID, id string, to model.Status, documentID int, contentURL string) (bool, error)

	// Exists reports whether another record of the owner already holds the
	// same title, category and remote document id.
	Exists(ctx context.Context, userID, title, categoryID string, documentID int, excludeID string) (bool, error)

	// SetImportant flips the importance flag.
	SetImportant(ctx context.Context, userID, id string, important bool) error

	// Delete removes a document by ID. It returns nil if the row was deleted
	// or did not exist.
	Delete(ctx context.Context, userID, id string) error
}
