package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/testutil"
)

func testBoard(t *testing.T) *core.Board {
	return testutil.Board(t,
		"S.....~...",
		"..~.......",
		".....~....",
		"...~.....E",
	)
}

type countingStore struct {
	Store
	gets, puts int
	failGet    bool
}

func (c *countingStore) Get(ctx context.Context, key string) (*solver.Field, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, errors.New("store down")
	}
	return c.Store.Get(ctx, key)
}

func (c *countingStore) Put(ctx context.Context, key string, f *solver.Field) error {
	c.puts++
	return c.Store.Put(ctx, key, f)
}

func TestKey(t *testing.T) {
	board := testBoard(t)
	other := testutil.Board(t,
		"S.....~...",
		"..~.......",
		".....~....",
		"...~~....E",
	)

	assert.Equal(t, Key(board, board.End(), 3), Key(board, board.End(), 3))
	assert.NotEqual(t, Key(board, board.End(), 3), Key(board, board.End(), 4))
	assert.NotEqual(t, Key(board, board.End(), 3), Key(board, core.NewCoordinate(0, 0), 3))
	assert.NotEqual(t, Key(board, board.End(), 3), Key(other, other.End(), 3))
}

func TestGetOrCompute(t *testing.T) {
	board := testBoard(t)
	s := solver.NewSolver(testutil.NopLogger(), 2)
	store := &countingStore{Store: NewMemoryStore(4)}
	ctx := context.Background()

	first, hit, err := GetOrCompute(ctx, store, s, board, board.End(), 3)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, store.puts)

	second, hit, err := GetOrCompute(ctx, store, s, board, board.End(), 3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.puts)

	want, err := solver.ComputeField(board, board.End(), 3)
	require.NoError(t, err)
	assert.True(t, want.Equal(first))
}

func TestGetOrCompute_StoreFailureFallsBackToSolving(t *testing.T) {
	board := testBoard(t)
	store := &countingStore{Store: NewMemoryStore(4), failGet: true}

	field, hit, err := GetOrCompute(context.Background(), store, solver.NewSolver(testutil.NopLogger(), 1), board, board.End(), 2)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, field)
}

func TestGetOrCompute_SolverErrors(t *testing.T) {
	board := testBoard(t)
	s := solver.NewSolver(testutil.NopLogger(), 1)

	_, _, err := GetOrCompute(context.Background(), NewMemoryStore(1), s, board, core.NewCoordinate(6, 0), 2)
	assert.ErrorIs(t, err, solver.ErrInvalidGoal)

	_, _, err = GetOrCompute(context.Background(), NewMemoryStore(1), s, nil, core.NewCoordinate(0, 0), 2)
	assert.ErrorIs(t, err, core.ErrEmptyBoard)
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	board := testBoard(t)
	field, err := solver.ComputeField(board, board.End(), 1)
	require.NoError(t, err)

	ctx := context.Background()
	m := NewMemoryStore(2)
	require.NoError(t, m.Put(ctx, "a", field))
	require.NoError(t, m.Put(ctx, "b", field))
	require.NoError(t, m.Put(ctx, "a", field))
	assert.Equal(t, 2, m.Len())

	require.NoError(t, m.Put(ctx, "c", field))
	assert.Equal(t, 2, m.Len())

	_, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "a was inserted first and must be evicted")

	got, ok, err := m.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, field, got)
}

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisStore(t *testing.T) {
	board := testBoard(t)
	field, err := solver.ComputeField(board, board.End(), 2)
	require.NoError(t, err)

	fake := newFakeRedis()
	store := newRedisStore(fake, "rwb:field:", time.Hour, testutil.NopLogger())
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "k", field))
	assert.Contains(t, fake.data, "rwb:field:k")
	assert.Equal(t, time.Hour, fake.ttls["rwb:field:k"])

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, field.Equal(got))

	fake.data["rwb:field:bad"] = "not json"
	_, ok, err = store.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	fake.err = errors.New("connection refused")
	_, _, err = store.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, store.Put(ctx, "k", field))
}

func TestRedisStore_WithGetOrCompute(t *testing.T) {
	board := testBoard(t)
	store := newRedisStore(newFakeRedis(), "", 0, testutil.NopLogger())
	s := solver.NewSolver(testutil.NopLogger(), 1)

	first, hit, err := GetOrCompute(context.Background(), store, s, board, board.End(), 2)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := GetOrCompute(context.Background(), store, s, board, board.End(), 2)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, first.Equal(second))
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
