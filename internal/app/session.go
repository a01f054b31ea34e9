package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/jotlist/internal/model"
	"github.com/idilsaglam/jotlist/internal/store/sqlitestore"
)

// State is the lifecycle state of a Session.
type State int

const (
	// Unready: the store is not open yet, or opening it failed.
	Unready State = iota
	// Ready: add, delete and list are available.
	Ready
	// Closed: Close was called. Terminal; the session cannot be reopened.
	Closed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return "unready"
	}
}

// ErrNotReady is returned by every operation on a session that is not Ready.
var ErrNotReady = errors.New("store is not open")

// Gateway is the storage surface a Session drives.
type Gateway interface {
	AddItem(ctx context.Context, body string) (model.Item, error)
	AddItems(ctx context.Context, bodies []string) ([]model.Item, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	ListAll(ctx context.Context) ([]model.Item, error)
	Close() error
}

// Opener produces the gateway once, on Session.Open.
type Opener func(ctx context.Context) (Gateway, error)

// SQLiteOpener opens the SQLite store at path.
func SQLiteOpener(path string) Opener {
	return func(ctx context.Context) (Gateway, error) {
		st, err := sqlitestore.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}

// Snapshot is the full item collection as read after an operation.
type Snapshot struct {
	Items []model.Item
}

// Session owns one store handle and its lifecycle. Independent sessions
// can live in the same process.
type Session struct {
	id   string
	open Opener
	log  *zap.SugaredLogger

	mu      sync.RWMutex
	state   State
	opened  bool
	openErr error
	gw      Gateway
}

// NewSession returns an Unready session. Nothing is opened until Open.
func NewSession(open Opener, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	id := uuid.NewString()
	return &Session{
		id:   id,
		open: open,
		log:  log.With("session", id),
	}
}

// ID returns the session's instance id.
func (s *Session) ID() string { return s.id }

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Open moves the session from Unready to Ready. It runs the opener at most
// once: a failed open is logged and returned again on every later call.
// A closed session stays closed.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Closed {
		return ErrNotReady
	}
	if s.opened {
		return s.openErr
	}
	s.opened = true

	gw, err := s.open(ctx)
	if err != nil {
		s.openErr = fmt.Errorf("open store: %w", err)
		s.log.Errorw("Database failed to open", "error", err)
		return s.openErr
	}
	s.gw = gw
	s.state = Ready
	s.log.Infow("Database opened")
	return nil
}

func (s *Session) gateway() (Gateway, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != Ready || s.gw == nil {
		return nil, ErrNotReady
	}
	return s.gw, nil
}

// Items reads the whole collection.
func (s *Session) Items(ctx context.Context) (Snapshot, error) {
	gw, err := s.gateway()
	if err != nil {
		return Snapshot{}, err
	}
	items, err := gw.ListAll(ctx)
	if err != nil {
		s.log.Errorw("List items failed", "error", err)
		return Snapshot{}, err
	}
	s.log.Debugw("Items listed", "count", len(items))
	return Snapshot{Items: items}, nil
}

// Add stores body and returns the added item along with a fresh snapshot.
// Nothing is stored when the write fails.
func (s *Session) Add(ctx context.Context, body string) (model.Item, Snapshot, error) {
	gw, err := s.gateway()
	if err != nil {
		return model.Item{}, Snapshot{}, err
	}
	it, err := gw.AddItem(ctx, body)
	if err != nil {
		s.log.Errorw("Add item failed", "error", err)
		return model.Item{}, Snapshot{}, err
	}
	s.log.Infow("Item added", "id", it.ID)

	snap, err := s.Items(ctx)
	if err != nil {
		return it, Snapshot{}, err
	}
	return it, snap, nil
}

// AddAll stores every body in one write and returns the added items in
// input order along with a fresh snapshot. Nothing is stored when the
// write fails.
func (s *Session) AddAll(ctx context.Context, bodies []string) ([]model.Item, Snapshot, error) {
	gw, err := s.gateway()
	if err != nil {
		return nil, Snapshot{}, err
	}
	added, err := gw.AddItems(ctx, bodies)
	if err != nil {
		s.log.Errorw("Add items failed", "count", len(bodies), "error", err)
		return nil, Snapshot{}, err
	}
	s.log.Infow("Items added", "count", len(added))

	snap, err := s.Items(ctx)
	if err != nil {
		return added, Snapshot{}, err
	}
	return added, snap, nil
}

// Delete removes the item with id and reports whether it existed.
// A missing id is not an error.
func (s *Session) Delete(ctx context.Context, id int64) (bool, error) {
	gw, err := s.gateway()
	if err != nil {
		return false, err
	}
	removed, err := gw.DeleteItem(ctx, id)
	if err != nil {
		s.log.Errorw("Delete item failed", "id", id, "error", err)
		return false, err
	}
	if !removed {
		s.log.Debugw("Delete of missing item", "id", id)
		return false, nil
	}
	s.log.Infow("Item deleted", "id", id)
	return true, nil
}

// Close releases the store and moves the session to Closed, whatever state
// it was in. Later operations fail with ErrNotReady.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Closed
	if s.gw == nil {
		return nil
	}
	err := s.gw.Close()
	s.gw = nil
	return err
}
