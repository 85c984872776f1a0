// Package postgres provides a PostgreSQL implementation of
// transport.ActivityStore. It uses pgx/v5 for connection pooling and keeps
// signups in a separate append-only table so duplicate signups remain
// visible, matching the in-memory store's behavior.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/storage"
	"github.com/mergington/campus/pkg/transport"
)

// Store is a PostgreSQL-backed ActivityStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements transport.ActivityStore at compile time.
var _ transport.ActivityStore = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// List returns the full catalog with participants in signup order.
func (s *Store) List(ctx context.Context) (map[string]api.Activity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.name, a.description, a.schedule, a.max_participants,
		       COALESCE(
		           (SELECT array_agg(p.email ORDER BY p.id)
		            FROM participants p WHERE p.activity_name = a.name),
		           '{}')
		FROM activities a
	`)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	out := make(map[string]api.Activity)
	for rows.Next() {
		var name string
		var a api.Activity
		if err := rows.Scan(&name, &a.Description, &a.Schedule, &a.MaxParticipants, &a.Participants); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		out[name] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	return out, nil
}

// Get returns one activity by name. Returns storage.ErrNotFound when the
// activity does not exist.
func (s *Store) Get(ctx context.Context, name string) (*api.Activity, error) {
	var a api.Activity
	err := s.pool.QueryRow(ctx, `
		SELECT a.description, a.schedule, a.max_participants,
		       COALESCE(
		           (SELECT array_agg(p.email ORDER BY p.id)
		            FROM participants p WHERE p.activity_name = a.name),
		           '{}')
		FROM activities a
		WHERE a.name = $1
	`, name).Scan(&a.Description, &a.Schedule, &a.MaxParticipants, &a.Participants)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("getting activity: %w", err)
	}

	return &a, nil
}

// Signup appends an email to the activity's participant list. The
// participants table has no uniqueness constraint: duplicate signups
// insert duplicate rows, matching the documented append-only behavior.
func (s *Store) Signup(ctx context.Context, name, email string) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO participants (activity_name, email)
		SELECT name, $2 FROM activities WHERE name = $1
	`, name, email)
	if err != nil {
		return fmt.Errorf("recording signup: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck verifies database connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
