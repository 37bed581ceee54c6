package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/repository"
)

var categoryRows = []string{"id", "user_id", "name", "description", "document_type_id", "created_at", "updated_at"}

func TestCategoryPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCategoryPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	cat := &model.Category{
		ID:             "cat-1",
		UserID:         "user-1",
		Name:           "Invoices",
		DocumentTypeID: 7,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs(cat.ID, cat.UserID, cat.Name, cat.Description, cat.DocumentTypeID, cat.CreatedAt, cat.UpdatedAt).
		WillReturnRows(sqlmock.NewRows(categoryRows).
			AddRow(cat.ID, cat.UserID, cat.Name, cat.Description, cat.DocumentTypeID, now, now))

	result, err := repo.Create(ctx, cat)

	assert.NoError(t, err)
	assert.Equal(t, 7, result.DocumentTypeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCategoryPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM categories WHERE user_id = (.+) AND id = ?").
			WithArgs("user-1", "cat-1").
			WillReturnRows(sqlmock.NewRows(categoryRows).
				AddRow("cat-1", "user-1", "Invoices", "", 7, now, now))

		cat, err := repo.FindByID(ctx, "user-1", "cat-1")

		assert.NoError(t, err)
		assert.Equal(t, "Invoices", cat.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM categories WHERE user_id = (.+) AND id = ?").
			WithArgs("user-1", "missing").
			WillReturnError(sql.ErrNoRows)

		cat, err := repo.FindByID(ctx, "user-1", "missing")

		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, cat)
	})
}

func TestCategoryPostgres_ExistsName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCategoryPostgres(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", "Invoices", "").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsName(context.Background(), "user-1", "Invoices", "")

	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestCategoryPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewCategoryPostgres(db)
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM categories").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	mock.ExpectQuery("SELECT (.+) FROM categories WHERE user_id = (.+) ORDER BY name").
		WithArgs("user-1", 10, 0).
		WillReturnRows(sqlmock.NewRows(categoryRows).
			AddRow("cat-1", "user-1", "Bills", "", 5, now, now).
			AddRow("cat-2", "user-1", "Invoices", "", 7, now, now))

	res, err := repo.List(context.Background(), "user-1", repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, "Bills", res.Items[0].Name)
}
