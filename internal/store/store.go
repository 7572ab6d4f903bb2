// apps/go-server/internal/store/store.go
//
// Round history.
// A Store records every solved round and answers leaderboard queries.
// Live sessions are never persisted; only finished rounds are.

package store

import (
	"context"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../../mocks/mock_store.go -package=mocks

// RoundResult is the record of one solved round.
type RoundResult struct {
	SessionID  string    `json:"sessionId"`
	Round      int       `json:"round"`
	Word       string    `json:"word"`
	WinnerName string    `json:"winnerName"`
	LoserName  string    `json:"loserName"`
	Guesses    int       `json:"guesses"`
	FinishedAt time.Time `json:"finishedAt"`
}

// LeaderboardRow counts the rounds won under a display name.
type LeaderboardRow struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Store persists round results. Implementations may be backed by memory
// (memory.go) or SQLite (sqlite.go).
type Store interface {
	// RecordRound appends a finished round.
	RecordRound(ctx context.Context, r RoundResult) error

	// Leaderboard returns the top winners, most wins first, ties by name.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)

	// Close releases resources held by the store.
	Close() error
}

const defaultLeaderboardLimit = 20

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	return limit
}
