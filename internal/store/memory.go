// apps/go-server/internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when no database path is configured, and in tests.
//
// Characteristics:
//   - Keeps results in a slice in arrival order.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// memory is an in-memory slice-based Store implementation.
type memory struct {
	mu      sync.RWMutex  // guards results
	results []RoundResult // in arrival order
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

// RecordRound appends r.
func (m *memory) RecordRound(ctx context.Context, r RoundResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

// Leaderboard counts wins per name.
func (m *memory) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	m.mu.RLock()
	wins := lo.CountValuesBy(m.results, func(r RoundResult) string { return r.WinnerName })
	m.mu.RUnlock()

	rows := lo.MapToSlice(wins, func(name string, n int) LeaderboardRow {
		return LeaderboardRow{Name: name, Wins: n}
	})
	slices.SortFunc(rows, func(a, b LeaderboardRow) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit = normalizeLimit(limit); len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Close is a no-op.
func (m *memory) Close() error { return nil }
