package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/okian/wanderlist/internal/domain/destination"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS destinations (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	location    TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	visit_date  TEXT,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
)`

const sqliteColumns = `id, name, location, description, visit_date, created_at, updated_at`

// sqlOpen is swapped in tests to simulate driver failures.
var sqlOpen = sql.Open //nolint:gochecknoglobals // test seam

// SQLiteStore persists destinations in a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	cfg settings
}

var (
	_ Store   = (*SQLiteStore)(nil)
	_ Clearer = (*SQLiteStore)(nil)
	_ Pinger  = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens (or creates) the database file at path.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		path = "wanderlist.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sqlOpen("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, cfg: newSettings(opts)}
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create destinations table: %w", err)
	}
	return s, nil
}

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FindAll returns every destination, newest first.
func (s *SQLiteStore) FindAll(ctx context.Context) ([]destination.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM destinations ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("select destinations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []destination.Destination{}
	for rows.Next() {
		d, err := scanSQLite(rows)
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
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (destination.Destination, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM destinations WHERE id = ?`, id)
	return scanSQLite(row)
}

// Insert stores a new destination.
func (s *SQLiteStore) Insert(ctx context.Context, f destination.Fields) (destination.Destination, error) {
	now := s.cfg.now()
	d := destination.Destination{ID: s.cfg.newID(), CreatedAt: now, UpdatedAt: now}.Apply(f)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO destinations (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Location, d.Description, sqliteDate(d.Date), now.UnixNano(), now.UnixNano())
	if err != nil {
		return destination.Destination{}, fmt.Errorf("insert destination: %w", err)
	}
	return d, nil
}

// Update replaces the writable fields of an existing destination.
func (s *SQLiteStore) Update(ctx context.Context, id string, f destination.Fields) (destination.Destination, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE destinations SET name = ?, location = ?, description = ?, visit_date = ?, updated_at = ? WHERE id = ?`,
		f.Name, f.Location, f.Description, sqliteDate(f.Date), s.cfg.now().UnixNano(), id)
	if err != nil {
		return destination.Destination{}, fmt.Errorf("update destination: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return destination.Destination{}, ErrNotFound
	}
	return s.FindByID(ctx, id)
}

// Delete removes a destination.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete destination: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete destination: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every destination.
func (s *SQLiteStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM destinations`)
	if err != nil {
		return 0, fmt.Errorf("delete destinations: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (destination.Destination, error) {
	var (
		d       destination.Destination
		visit   sql.NullString
		created int64
		updated int64
	)
	err := row.Scan(&d.ID, &d.Name, &d.Location, &d.Description, &visit, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return destination.Destination{}, ErrNotFound
	}
	if err != nil {
		return destination.Destination{}, fmt.Errorf("scan destination: %w", err)
	}
	if visit.Valid && visit.String != "" {
		date, err := destination.ParseDate(visit.String)
		if err != nil {
			return destination.Destination{}, fmt.Errorf("scan destination %s: %w", d.ID, err)
		}
		d.Date = &date
	}
	d.CreatedAt = time.Unix(0, created).UTC()
	d.UpdatedAt = time.Unix(0, updated).UTC()
	return d, nil
}

func sqliteDate(d *destination.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}
