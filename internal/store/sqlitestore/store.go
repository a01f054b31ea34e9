package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/idilsaglam/jotlist/internal/model"
)

// SQLite-backed item storage. One file, one table, one writer connection.

//go:embed schema.sql
var schemaSQL string

// SchemaVersion is the version recorded in PRAGMA user_version.
const SchemaVersion = 1

// ErrSchemaTooNew is returned by Open when the file was written by a newer schema.
var ErrSchemaTooNew = errors.New("database schema is newer than supported")

// Store is the storage gateway over the items table.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if absent) the database at path and applies the schema.
// Safe to call repeatedly against the same file.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection also keeps
	// :memory: databases on the same handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database. A nil store is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the file the store was opened on.
func (s *Store) Path() string { return s.path }

// connPragmas run on every new connection the driver opens.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// dsn appends connPragmas as _pragma query parameters so a recycled
// connection comes back configured the same way.
func dsn(path string) string {
	params := make([]string, 0, len(connPragmas))
	for _, p := range connPragmas {
		params = append(params, "_pragma="+p)
	}
	return path + "?" + strings.Join(params, "&")
}

func applySchema(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version > SchemaVersion {
		return fmt.Errorf("%w: have %d, support %d", ErrSchemaTooNew, version, SchemaVersion)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if version < SchemaVersion {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// AddItem inserts {body} and returns it with the store-assigned id.
func (s *Store) AddItem(ctx context.Context, body string) (model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Item{}, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `INSERT INTO items(body) VALUES(?)`, body)
	if err != nil {
		return model.Item{}, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Item{}, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Item{}, fmt.Errorf("commit: %w", err)
	}
	return model.Item{ID: id, Body: body}, nil
}

// AddItems inserts every body in one transaction and returns the stored
// items in input order. Either all of them are stored or none is.
func (s *Store) AddItems(ctx context.Context, bodies []string) ([]model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items(body) VALUES(?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	items := make([]model.Item, 0, len(bodies))
	for i, body := range bodies {
		res, err := stmt.ExecContext(ctx, body)
		if err != nil {
			return nil, fmt.Errorf("insert item %d of %d: %w", i+1, len(bodies), err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		items = append(items, model.Item{ID: id, Body: body})
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return items, nil
}

// DeleteItem removes the item with id. It reports whether a row was removed;
// a missing id is not an error.
func (s *Store) DeleteItem(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete item %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListAll returns every item in ascending id order.
func (s *Store) ListAll(ctx context.Context) ([]model.Item, error) {
	c, err := s.OpenCursor(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	items := []model.Item{}
	for c.Next() {
		items = append(items, c.Item())
	}
	return items, c.Err()
}
