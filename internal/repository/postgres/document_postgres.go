package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// IsNoRowsError reports whether err is the driver's no-rows sentinel.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

const documentColumns = `id, user_id, category_id, title, description, task_id, document_id, content_url, status, storage_path, is_important, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var status string
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.CategoryID,
		&d.Title,
		&d.Description,
		&d.TaskID,
		&d.DocumentID,
		&d.ContentURL,
		&status,
		&d.StoragePath,
		&d.IsImportant,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.Status = model.Status(status)
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, user_id, category_id, title, description, task_id, document_id, content_url, status, storage_path, is_important, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.CategoryID,
		doc.Title,
		doc.Description,
		doc.TaskID,
		doc.DocumentID,
		doc.ContentURL,
		string(doc.Status),
		doc.StoragePath,
		doc.IsImportant,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID, scoped to the owner.
func (r *DocumentPostgres) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 AND id = $2`
	return scanDocument(r.db.QueryRowContext(ctx, q, userID, id))
}

// FindByTaskID fetches the document tracking a task handle.
func (r *DocumentPostgres) FindByTaskID(ctx context.Context, userID, taskID string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 AND task_id = $2`
	return scanDocument(r.db.QueryRowContext(ctx, q, userID, taskID))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, userID string, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, "category_id = $"+strconv.Itoa(len(args)))
	}
	if f.ImportantOnly {
		where = append(where, "is_important = TRUE")
	}
	cond := strings.Join(where, " AND ")

	var total int
	qCount := `SELECT COUNT(*) FROM documents WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, pq.Limit, pq.Offset)
	qList := fmt.Sprintf(`SELECT %s FROM documents WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, cond, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Update rewrites the mutable columns of an existing record.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) error {
	const q = `
		UPDATE documents
		SET category_id = $1, title = $2, description = $3, task_id = $4, document_id = $5,
		    content_url = $6, status = $7, storage_path = $8, is_important = $9, updated_at = $10
		WHERE user_id = $11 AND id = $12
	`
	res, err := r.db.ExecContext(ctx, q,
		doc.CategoryID,
		doc.Title,
		doc.Description,
		doc.TaskID,
		doc.DocumentID,
		doc.ContentURL,
		string(doc.Status),
		doc.StoragePath,
		doc.IsImportant,
		doc.UpdatedAt,
		doc.UserID,
		doc.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkRunning advances a SUBMITTED record to RUNNING without touching the
// remote identifier columns.
func (r *DocumentPostgres) MarkRunning(ctx context.Context, userID, id string) (bool, error) {
	const q = `
		UPDATE documents
		SET status = $1, updated_at = now()
		WHERE user_id = $2 AND id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, q, string(model.StatusRunning), userID, id, string(model.StatusSubmitted))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Finalize applies a terminal transition conditionally: the update only
// matches while the record is still non-terminal, so concurrent polls cannot
// both finalize the same row.
func (r *DocumentPostgres) Finalize(ctx context.Context, userID, id string, to model.Status, documentID int, contentURL string) (bool, error) {
	const q = `
		UPDATE documents
		SET status = $1, document_id = $2, content_url = $3, updated_at = now()
		WHERE user_id = $4 AND id = $5 AND status IN ($6, $7)
	`
	res, err := r.db.ExecContext(ctx, q,
		string(to),
		documentID,
		contentURL,
		userID,
		id,
		string(model.StatusSubmitted),
		string(model.StatusRunning),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Exists reports whether another row of the owner already holds the same
// title, category and remote document id.
func (r *DocumentPostgres) Exists(ctx context.Context, userID, title, categoryID string, documentID int, excludeID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM documents
			WHERE user_id = $1 AND title = $2 AND category_id = $3 AND document_id = $4 AND id <> $5
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, title, categoryID, documentID, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SetImportant flips the importance flag.
func (r *DocumentPostgres) SetImportant(ctx context.Context, userID, id string, important bool) error {
	const q = `UPDATE documents SET is_important = $1, updated_at = now() WHERE user_id = $2 AND id = $3`
	res, err := r.db.ExecContext(ctx, q, important, userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM documents WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, userID, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
