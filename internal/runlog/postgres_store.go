package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const schemaTimeout = 30 * time.Second

// PostgresStore keeps entries in the scaffold_runs table, created on first
// successful use. A failed migration is retried by the next call.
type PostgresStore struct {
	db      *sql.DB
	migrate func(ctx context.Context) error

	schemaMu    sync.Mutex
	schemaReady bool
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	s := &PostgresStore{db: db}
	s.migrate = s.createSchema
	return s, nil
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	// The table outlives the request that happens to create it.
	mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), schemaTimeout)
	defer cancel()
	if err := s.migrate(mctx); err != nil {
		return fmt.Errorf("runlog: create schema: %w", err)
	}
	s.schemaReady = true
	return nil
}

func (s *PostgresStore) createSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS scaffold_runs (
  id TEXT PRIMARY KEY,
  mode TEXT NOT NULL,
  project TEXT NOT NULL DEFAULT '',
  resource TEXT NOT NULL DEFAULT '',
  backend TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  files INTEGER NOT NULL DEFAULT 0,
  steps INTEGER NOT NULL DEFAULT 0,
  duration_ms BIGINT NOT NULL DEFAULT 0,
  error TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_scaffold_runs_created_at ON scaffold_runs (created_at DESC);
`)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("runlog: id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO scaffold_runs (
  id, mode, project, resource, backend, status, files, steps, duration_ms, error, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id)
DO UPDATE SET status=EXCLUDED.status,
  files=EXCLUDED.files,
  steps=EXCLUDED.steps,
  duration_ms=EXCLUDED.duration_ms,
  error=EXCLUDED.error`,
		e.ID, e.Mode, e.Project, e.Resource, e.Backend, e.Status,
		e.Files, e.Steps, e.Duration.Milliseconds(), e.Error, e.CreatedAt)
	return err
}

const selectEntry = `SELECT id, mode, project, resource, backend, status, files, steps, duration_ms, error, created_at
FROM scaffold_runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e  Entry
		ms int64
	)
	if err := row.Scan(&e.ID, &e.Mode, &e.Project, &e.Resource, &e.Backend, &e.Status,
		&e.Files, &e.Steps, &ms, &e.Error, &e.CreatedAt); err != nil {
		return Entry{}, err
	}
	e.Duration = time.Duration(ms) * time.Millisecond
	return e, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Entry, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Entry{}, err
	}
	e, err := scanEntry(s.db.QueryRowContext(ctx, selectEntry+` WHERE id = $1`, strings.TrimSpace(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, selectEntry+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Entry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
