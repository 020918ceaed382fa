// Package cache keeps solved probability fields so that boards shared by
// several games, or replayed with the same seed, are solved once.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
)

// Store is a field cache. Get reports a miss with ok == false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (field *solver.Field, ok bool, err error)
	Put(ctx context.Context, key string, field *solver.Field) error
}

// Key identifies a field by terrain, goal and sweep count
func Key(b *core.Board, end core.Coordinate, iterations int) string {
	return fmt.Sprintf("%s:%d,%d:%d", b.Hash(), end.X, end.Y, iterations)
}

// GetOrCompute returns the cached field for the inputs, solving and storing
// it on a miss. hit reports whether the store answered. Store errors never
// fail the call; the field is solved instead.
func GetOrCompute(ctx context.Context, store Store, s *solver.Solver, b *core.Board, end core.Coordinate, iterations int) (field *solver.Field, hit bool, err error) {
	if b == nil || b.Size() == 0 {
		return nil, false, core.ErrEmptyBoard
	}
	key := Key(b, end, iterations)

	if cached, ok, getErr := store.Get(ctx, key); getErr == nil && ok && cached.Matches(b) {
		return cached, true, nil
	}

	field, err = s.Solve(ctx, b, end, iterations)
	if err != nil {
		return nil, false, err
	}
	_ = store.Put(ctx, key, field)
	return field, false, nil
}

// MemoryStore is an in-process Store that evicts the oldest entry once full
type MemoryStore struct {
	mu    sync.Mutex
	size  int
	order []string
	items map[string]*solver.Field
}

func NewMemoryStore(size int) *MemoryStore {
	if size < 1 {
		size = 1
	}
	return &MemoryStore{
		size:  size,
		items: make(map[string]*solver.Field, size),
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*solver.Field, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.items[key]
	return f, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, field *solver.Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists {
		if len(m.order) == m.size {
			delete(m.items, m.order[0])
			m.order = m.order[1:]
		}
		m.order = append(m.order, key)
	}
	m.items[key] = field
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
