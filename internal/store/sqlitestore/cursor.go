package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/idilsaglam/jotlist/internal/model"
)

// Cursor is a forward-only traversal over the items table in ascending id
// order. It cannot be restarted; open a new one instead.
//
// The store runs on a single connection, so a cursor must be closed before
// any other operation on the same store can proceed.
type Cursor struct {
	rows *sql.Rows
	cur  model.Item
	err  error
	done bool
}

// OpenCursor starts a new traversal.
func (s *Store) OpenCursor(ctx context.Context) (*Cursor, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, body FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return &Cursor{rows: rows}, nil
}

// Next advances to the next item. It returns false when the table is
// exhausted or an error occurred, and keeps returning false afterwards.
func (c *Cursor) Next() bool {
	if c.done {
		return false
	}
	if !c.rows.Next() {
		c.finish(c.rows.Err())
		return false
	}
	var it model.Item
	if err := c.rows.Scan(&it.ID, &it.Body); err != nil {
		c.finish(fmt.Errorf("scan item: %w", err))
		return false
	}
	c.cur = it
	return true
}

// Item returns the item at the current position.
func (c *Cursor) Item() model.Item { return c.cur }

// Err returns the error that stopped the traversal, if any.
func (c *Cursor) Err() error { return c.err }

// Close releases the cursor. Safe to call more than once.
func (c *Cursor) Close() error {
	if c.done {
		return nil
	}
	c.done = true
	return c.rows.Close()
}

func (c *Cursor) finish(err error) {
	if c.err == nil {
		c.err = err
	}
	c.done = true
	_ = c.rows.Close()
}
