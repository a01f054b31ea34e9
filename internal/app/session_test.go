package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/idilsaglam/jotlist/internal/model"
)

// --- gateway mock ---
type mockGateway struct{ mock.Mock }

func (m *mockGateway) AddItem(ctx context.Context, body string) (model.Item, error) {
	args := m.Called(ctx, body)
	return args.Get(0).(model.Item), args.Error(1)
}
func (m *mockGateway) AddItems(ctx context.Context, bodies []string) ([]model.Item, error) {
	args := m.Called(ctx, bodies)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockGateway) DeleteItem(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *mockGateway) ListAll(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).([]model.Item); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockGateway) Close() error { return m.Called().Error(0) }

var _ Gateway = (*mockGateway)(nil)

func mockOpener(gw Gateway) Opener {
	return func(context.Context) (Gateway, error) { return gw, nil }
}

func observed() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func openSQLiteSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(SQLiteOpener(filepath.Join(t.TempDir(), "items.db")), nil)
	require.NoError(t, s.Open(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSession_UnreadyRejectsOperations(t *testing.T) {
	ctx := context.Background()
	s := NewSession(mockOpener(&mockGateway{}), nil)

	assert.Equal(t, Unready, s.State())

	_, _, err := s.Add(ctx, "x")
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.Delete(ctx, 1)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.Items(ctx)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSession_OpenFailureIsLoggedAndNotRetried(t *testing.T) {
	log, logs := observed()
	calls := 0
	boom := errors.New("storage denied")
	s := NewSession(func(context.Context) (Gateway, error) {
		calls++
		return nil, boom
	}, log)

	err := s.Open(context.Background())
	require.ErrorIs(t, err, boom)
	err = s.Open(context.Background())
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 1, calls)
	assert.Equal(t, Unready, s.State())
	assert.Equal(t, 1, logs.FilterMessage("Database failed to open").Len())
}

func TestSession_OpenOnce(t *testing.T) {
	calls := 0
	gw := &mockGateway{}
	s := NewSession(func(context.Context) (Gateway, error) {
		calls++
		return gw, nil
	}, nil)

	require.NoError(t, s.Open(context.Background()))
	require.NoError(t, s.Open(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, Ready, s.State())
	assert.Equal(t, "ready", s.State().String())
}

func TestSession_AddFailureHasNoEffect(t *testing.T) {
	ctx := context.Background()
	log, logs := observed()
	gw := &mockGateway{}
	gw.On("AddItem", mock.Anything, "x").Return(model.Item{}, errors.New("disk full"))

	s := NewSession(mockOpener(gw), log)
	require.NoError(t, s.Open(ctx))

	_, snap, err := s.Add(ctx, "x")
	require.Error(t, err)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 1, logs.FilterMessage("Add item failed").Len())
	gw.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestSession_AddReturnsFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	added := model.Item{ID: 3, Body: "walk dog"}
	all := []model.Item{{ID: 1, Body: "buy milk"}, added}
	gw.On("AddItem", mock.Anything, "walk dog").Return(added, nil)
	gw.On("ListAll", mock.Anything).Return(all, nil)

	s := NewSession(mockOpener(gw), nil)
	require.NoError(t, s.Open(ctx))

	it, snap, err := s.Add(ctx, "walk dog")
	require.NoError(t, err)
	assert.Equal(t, added, it)
	assert.Equal(t, all, snap.Items)
	gw.AssertExpectations(t)
}

func TestSession_DeleteMissingIsNotAnError(t *testing.T) {
	ctx := context.Background()
	log, logs := observed()
	gw := &mockGateway{}
	gw.On("DeleteItem", mock.Anything, int64(42)).Return(false, nil)

	s := NewSession(mockOpener(gw), log)
	require.NoError(t, s.Open(ctx))

	removed, err := s.Delete(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, logs.FilterMessage("Delete of missing item").Len())
}

func TestSession_DeleteFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	log, logs := observed()
	gw := &mockGateway{}
	gw.On("DeleteItem", mock.Anything, int64(1)).Return(false, errors.New("locked"))

	s := NewSession(mockOpener(gw), log)
	require.NoError(t, s.Open(ctx))

	_, err := s.Delete(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Delete item failed").Len())
}

func TestSession_CloseThenNotReady(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	gw.On("Close").Return(nil)

	s := NewSession(mockOpener(gw), nil)
	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, Closed, s.State())
	assert.Equal(t, "closed", s.State().String())
	_, err := s.Items(ctx)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, s.Open(ctx), ErrNotReady)
	gw.AssertNumberOfCalls(t, "Close", 1)
}

func TestSession_CloseBeforeOpenIsTerminal(t *testing.T) {
	ctx := context.Background()
	calls := 0
	s := NewSession(func(context.Context) (Gateway, error) {
		calls++
		return &mockGateway{}, nil
	}, nil)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Open(ctx), ErrNotReady)
	assert.Equal(t, Closed, s.State())
	assert.Zero(t, calls)
}

func TestSession_AddAllFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	log, logs := observed()
	gw := &mockGateway{}
	batch := []string{"one", "two", "three"}
	gw.On("AddItems", mock.Anything, batch).Return(nil, errors.New("insert item 2 of 3: disk full"))

	s := NewSession(mockOpener(gw), log)
	require.NoError(t, s.Open(ctx))

	added, snap, err := s.AddAll(ctx, batch)
	require.Error(t, err)
	assert.Nil(t, added)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 1, logs.FilterMessage("Add items failed").Len())
	gw.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestSession_AddAllReadsOnce(t *testing.T) {
	ctx := context.Background()
	gw := &mockGateway{}
	added := []model.Item{{ID: 4, Body: "a"}, {ID: 5, Body: "b"}}
	all := append([]model.Item{{ID: 1, Body: "old"}}, added...)
	gw.On("AddItems", mock.Anything, []string{"a", "b"}).Return(added, nil)
	gw.On("ListAll", mock.Anything).Return(all, nil).Once()

	s := NewSession(mockOpener(gw), nil)
	require.NoError(t, s.Open(ctx))

	got, snap, err := s.AddAll(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, added, got)
	assert.Equal(t, all, snap.Items)
	gw.AssertExpectations(t)
	gw.AssertNumberOfCalls(t, "ListAll", 1)
}

func TestSession_AddAllFailureLeavesSQLiteStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := openSQLiteSession(t)
	_, _, err := s.Add(ctx, "keep")
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = s.AddAll(cancelled, []string{"x", "y"})
	require.Error(t, err)

	snap, err := s.Items(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "keep", snap.Items[0].Body)
}

func TestSession_IndependentInstances(t *testing.T) {
	ctx := context.Background()
	a := openSQLiteSession(t)
	b := openSQLiteSession(t)
	assert.NotEqual(t, a.ID(), b.ID())

	_, _, err := a.Add(ctx, "only in a")
	require.NoError(t, err)

	snap, err := b.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestSession_AddThenListHasOneMoreFreshRecord(t *testing.T) {
	ctx := context.Background()
	s := openSQLiteSession(t)

	for _, body := range []string{"a", "b", ""} {
		before, err := s.Items(ctx)
		require.NoError(t, err)
		seen := map[int64]bool{}
		for _, it := range before.Items {
			seen[it.ID] = true
		}

		it, after, err := s.Add(ctx, body)
		require.NoError(t, err)
		assert.Len(t, after.Items, len(before.Items)+1)
		assert.False(t, seen[it.ID], "id %d reused", it.ID)
		assert.Equal(t, it, after.Items[len(after.Items)-1])
		assert.Equal(t, body, it.Body)
	}
}

func TestSession_DeleteThenListHasOneFewer(t *testing.T) {
	ctx := context.Background()
	s := openSQLiteSession(t)

	a, _, err := s.Add(ctx, "a")
	require.NoError(t, err)
	_, before, err := s.Add(ctx, "b")
	require.NoError(t, err)

	removed, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	after, err := s.Items(ctx)
	require.NoError(t, err)

	assert.Len(t, after.Items, len(before.Items)-1)
	for _, it := range after.Items {
		assert.NotEqual(t, a.ID, it.ID)
	}

	// deleting it again leaves the collection as is
	removed, err = s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	again, err := s.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, after, again)
}
