// apps/go-server/internal/lobby/lobby.go
//
// Matchmaking lobby.
// Responsibilities:
//   - Queue named players in arrival order and pair the two longest-waiting.
//   - Keep the registry of live sessions and the connection→session index.
//
// Characteristics:
//   - One mutex guards the queue and both maps; every method is safe for
//     concurrent use.
//   - A connection is either queued or mapped to a session, never both.

package lobby

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
)

// ErrNotFound is returned by GetSession for an unknown id.
var ErrNotFound = errors.New("session not found")

// Stats is a point-in-time view of the lobby.
type Stats struct {
	Waiting  int `json:"waiting"`
	Sessions int `json:"sessions"`
}

// Lobby pairs waiting players into sessions.
type Lobby struct {
	mu       sync.Mutex
	waiting  []*game.Player
	sessions map[string]*game.Session
	byConn   map[string]string // connection id → session id
	newID    func() string
}

// Option customises a Lobby.
type Option func(*Lobby)

// WithIDGenerator replaces the default UUID session ids.
func WithIDGenerator(gen func() string) Option {
	return func(l *Lobby) { l.newID = gen }
}

// New constructs an empty lobby.
func New(opts ...Option) *Lobby {
	l := &Lobby{
		sessions: make(map[string]*game.Session),
		byConn:   make(map[string]string),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// JoinPlayer pairs p with the longest-waiting player, or queues p.
// It returns the new session, or nil while p waits.
func (l *Lobby) JoinPlayer(p *game.Player) *game.Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.waiting) == 0 {
		l.waiting = append(l.waiting, p)
		return nil
	}
	opponent := l.waiting[0]
	l.waiting[0] = nil
	l.waiting = l.waiting[1:]

	s := game.NewSession(l.newID(), opponent, p)
	l.sessions[s.ID()] = s
	l.byConn[opponent.ConnectionID] = s.ID()
	l.byConn[p.ConnectionID] = s.ID()
	return s
}

// GetSession looks a session up by id.
func (l *Lobby) GetSession(id string) (*game.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// GetSessionByPlayer returns the session of connectionID, or nil if the
// connection is unknown or still waiting.
func (l *Lobby) GetSessionByPlayer(connectionID string) *game.Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.byConn[connectionID]
	if !ok {
		return nil
	}
	return l.sessions[id]
}

// RemoveMapping drops the connection→session entry only.
func (l *Lobby) RemoveMapping(connectionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byConn, connectionID)
}

// EndSession removes the session from the registry.
func (l *Lobby) EndSession(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, id)
}

// RemoveFromWaiting takes connectionID out of the queue if it is there.
func (l *Lobby) RemoveFromWaiting(connectionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, i, ok := lo.FindIndexOf(l.waiting, func(p *game.Player) bool {
		return p.ConnectionID == connectionID
	})
	if ok {
		l.waiting = slices.Delete(l.waiting, i, i+1)
	}
}

// IsWaiting reports whether connectionID is queued.
func (l *Lobby) IsWaiting(connectionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.ContainsFunc(l.waiting, func(p *game.Player) bool {
		return p.ConnectionID == connectionID
	})
}

// Stats returns queue length and live session count.
func (l *Lobby) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{Waiting: len(l.waiting), Sessions: len(l.sessions)}
}
