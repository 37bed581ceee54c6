package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL UNIQUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_categories",
		SQL: `CREATE TABLE IF NOT EXISTS categories (
  id               UUID        PRIMARY KEY,
  user_id          TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  name             TEXT        NOT NULL,
  description      TEXT        NOT NULL DEFAULT '',
  document_type_id INTEGER     NOT NULL,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (user_id, name)
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY,
  user_id      TEXT        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  title        TEXT        NOT NULL,
  description  TEXT        NOT NULL DEFAULT '',
  category_id  UUID        NOT NULL REFERENCES categories (id),
  task_id      TEXT        NOT NULL,
  document_id  INTEGER     NOT NULL DEFAULT -1,
  content_url  TEXT        NOT NULL DEFAULT 'PROCESSING',
  status       TEXT        NOT NULL DEFAULT 'SUBMITTED',
  storage_path TEXT        NOT NULL DEFAULT '',
  is_important BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_user ON documents (user_id);`,
	},
	{
		Name: "create_index_documents_task",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_task ON documents (user_id, task_id);`,
	},
	{
		Name: "create_index_documents_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_category ON documents (category_id);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status);`,
	},
	{
		Name: "create_index_categories_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_categories_user ON categories (user_id);`,
	},
}

// EnsureMigrated checks for the documents sentinel table and runs the schema
// steps when it is missing. Steps are idempotent, so a partially applied
// schema is completed rather than failed.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()

	logger := log.With().Str("component", "database").Str("db_host", dbHost).Logger()
	logger.Info().Msg("checking schema")

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("sentinel table check failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info().
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error().Err(err).
				Str("migration_step", step.Name).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		logger.Info().
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	logger.Info().
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema migrated")

	return nil
}
