package postgres

import (
	"context"
	"database/sql"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/repository"
)

// CategoryPostgres is a PostgreSQL implementation of repository.CategoryRepository.
type CategoryPostgres struct {
	db *sql.DB
}

// NewCategoryPostgres creates a new CategoryPostgres repository.
func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

const categoryColumns = `id, user_id, name, description, document_type_id, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Description,
		&c.DocumentTypeID,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryPostgres) Create(ctx context.Context, cat *model.Category) (*model.Category, error) {
	const q = `
		INSERT INTO categories (id, user_id, name, description, document_type_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns
	row := r.db.QueryRowContext(ctx, q,
		cat.ID,
		cat.UserID,
		cat.Name,
		cat.Description,
		cat.DocumentTypeID,
		cat.CreatedAt,
		cat.UpdatedAt,
	)
	return scanCategory(row)
}

func (r *CategoryPostgres) FindByID(ctx context.Context, userID, id string) (*model.Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND id = $2`
	return scanCategory(r.db.QueryRowContext(ctx, q, userID, id))
}

func (r *CategoryPostgres) ExistsName(ctx context.Context, userID, name, excludeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = $1 AND name = $2 AND id <> $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns the owner's categories ordered by name.
func (r *CategoryPostgres) List(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Category], error) {
	const qCount = `SELECT COUNT(*) FROM categories WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Category]{Items: items, Total: total}, nil
}

func (r *CategoryPostgres) Update(ctx context.Context, cat *model.Category) error {
	const q = `
		UPDATE categories
		SET name = $1, description = $2, updated_at = $3
		WHERE user_id = $4 AND id = $5
	`
	res, err := r.db.ExecContext(ctx, q, cat.Name, cat.Description, cat.UpdatedAt, cat.UserID, cat.ID)
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

func (r *CategoryPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM categories WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, q, userID, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
