package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/wanderlist/internal/domain/destination"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS destinations (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	location    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	visit_date  DATE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
)`

const postgresColumns = `id, name, location, description, visit_date, created_at, updated_at`

// PostgresStore persists destinations in a Postgres table through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	cfg  settings
}

var (
	_ Store   = (*PostgresStore)(nil)
	_ Clearer = (*PostgresStore)(nil)
	_ Pinger  = (*PostgresStore)(nil)
)

// NewPostgresStore connects to dsn, checks the connection and creates the
// destinations table if it is missing.
func NewPostgresStore(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}
	s := &PostgresStore{pool: pool, cfg: newSettings(opts)}
	if err := s.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create destinations table: %w", err)
	}
	return s, nil
}

// Ping checks the connection with a trivial query.
func (s *PostgresStore) Ping(ctx context.Context) error {
	var one int
	return s.pool.QueryRow(ctx, "select 1").Scan(&one)
}

// FindAll returns every destination, newest first.
func (s *PostgresStore) FindAll(ctx context.Context) ([]destination.Destination, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+postgresColumns+` FROM destinations ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("select destinations: %w", err)
	}
	defer rows.Close()

	out := []destination.Destination{}
	for rows.Next() {
		d, err := scanPostgres(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate destinations: %w", err)
	}
	return out, nil
}

// FindByID returns a single destination.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (destination.Destination, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+postgresColumns+` FROM destinations WHERE id = $1`, id)
	return scanPostgres(row)
}

// Insert stores a new destination.
func (s *PostgresStore) Insert(ctx context.Context, f destination.Fields) (destination.Destination, error) {
	now := s.cfg.now()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO destinations (id, name, location, description, visit_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING `+postgresColumns,
		s.cfg.newID(), f.Name, f.Location, f.Description, toPGDate(f.Date), now)
	return scanPostgres(row)
}

// Update replaces the writable fields of an existing destination.
func (s *PostgresStore) Update(ctx context.Context, id string, f destination.Fields) (destination.Destination, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE destinations
		 SET name = $2, location = $3, description = $4, visit_date = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING `+postgresColumns,
		id, f.Name, f.Location, f.Description, toPGDate(f.Date), s.cfg.now())
	return scanPostgres(row)
}

// Delete removes a destination.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete destination: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every destination.
func (s *PostgresStore) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM destinations`)
	if err != nil {
		return 0, fmt.Errorf("delete destinations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgres(row pgx.Row) (destination.Destination, error) {
	var (
		d       destination.Destination
		visit   pgtype.Date
		created time.Time
		updated time.Time
	)
	err := row.Scan(&d.ID, &d.Name, &d.Location, &d.Description, &visit, &created, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return destination.Destination{}, ErrNotFound
	}
	if err != nil {
		return destination.Destination{}, fmt.Errorf("scan destination: %w", err)
	}
	if visit.Valid {
		date := destination.DateOf(visit.Time)
		d.Date = &date
	}
	d.CreatedAt = created.UTC()
	d.UpdatedAt = updated.UTC()
	return d, nil
}

func toPGDate(d *destination.Date) pgtype.Date {
	if d == nil || d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}
