// apps/go-server/internal/orchestrator/orchestrator.go
//
// Game orchestrator: the single entry point of the transport layer.
// Responsibilities:
//   - Track connections from pending (no name) to named.
//   - Hand named players to the lobby and start sessions when they pair.
//   - Route guesses and rematch votes to the owning session.
//   - Tear sessions down on disconnect and re-queue the remaining player.
//   - Turn every state change into one outbound event on the Messenger.
//
// Locking:
//   - o.mu serialises lifecycle commands (connect, name, disconnect) and
//     guards the pending/named registries.
//   - Guess and RematchVote take only the session lock, so sessions run
//     independently of each other.
//   - Order is o.mu → session → lobby; the lobby never calls back.

package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
	"github.com/robalobadob/wordduel/apps/go-server/internal/lobby"
	"github.com/robalobadob/wordduel/apps/go-server/internal/store"
)

// WordPicker draws the secret word of a new round.
type WordPicker interface {
	Pick() string
}

// Stats is a point-in-time view for the admin endpoint.
type Stats struct {
	Pending  int `json:"pending"`
	Named    int `json:"named"`
	Waiting  int `json:"waiting"`
	Sessions int `json:"sessions"`
}

// Orchestrator drives connections through matchmaking and play.
type Orchestrator struct {
	mu      sync.Mutex
	pending map[string]*game.Player
	named   map[string]*game.Player

	lobby     *lobby.Lobby
	messenger game.Messenger
	picker    WordPicker
	store     store.Store
	now       func() time.Time
}

// New wires an orchestrator.
func New(lb *lobby.Lobby, m game.Messenger, p WordPicker, st store.Store) *Orchestrator {
	return &Orchestrator{
		pending:   make(map[string]*game.Player),
		named:     make(map[string]*game.Player),
		lobby:     lb,
		messenger: m,
		picker:    p,
		store:     st,
		now:       time.Now,
	}
}

// AddPendingConnection registers a new, unnamed connection and acknowledges it.
func (o *Orchestrator) AddPendingConnection(connectionID string) {
	o.mu.Lock()
	_, isPending := o.pending[connectionID]
	_, isNamed := o.named[connectionID]
	if isPending || isNamed {
		o.mu.Unlock()
		log.Warn().Str("conn", connectionID).Msg("connection already registered")
		return
	}
	o.pending[connectionID] = &game.Player{ConnectionID: connectionID}
	o.mu.Unlock()

	log.Debug().Str("conn", connectionID).Msg("pending connection")
	o.messenger.SendToConnection(connectionID, game.Connected{ConnectionID: connectionID})
}

// RegisterName names a pending connection and sends it to matchmaking.
// When it pairs with a waiting player the first round starts immediately.
func (o *Orchestrator) RegisterName(connectionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return game.ErrInvalidName
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.pending[connectionID]
	if !ok {
		return game.ErrUnknownConnection
	}
	delete(o.pending, connectionID)
	p.Name = name
	o.named[connectionID] = p

	s := o.lobby.JoinPlayer(p)
	if s == nil {
		log.Info().Str("conn", connectionID).Str("name", name).Msg("waiting for opponent")
		return nil
	}
	o.startSession(s)
	return nil
}

// Guess submits a letter (one character) or a whole word for connectionID.
// ctx bounds the round-history write that follows a solve.
func (o *Orchestrator) Guess(ctx context.Context, connectionID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return game.ErrInvalidGuess
	}
	s, err := o.sessionOf(connectionID)
	if err != nil {
		return err
	}

	s.Lock()
	var out game.Outcome
	if runes := []rune(text); len(runes) == 1 {
		out, err = s.GuessLetter(connectionID, runes[0])
	} else {
		out, err = s.GuessWord(connectionID, text)
	}
	if err != nil {
		s.Unlock()
		return err
	}

	var result *store.RoundResult
	if out.Solved {
		o.messenger.SendToGroup(s.ID(), wordGuessed(out.Guesser, s.Word()))
		result = &store.RoundResult{
			SessionID:  s.ID(),
			Round:      s.Round(),
			Word:       s.Word(),
			WinnerName: out.Guesser.Name,
			LoserName:  s.Opponent(connectionID).Name,
			Guesses:    s.Guesses(),
			FinishedAt: o.now(),
		}
	} else {
		o.messenger.SendToGroup(s.ID(), guessed(out, s.Turn()))
	}
	s.Unlock()

	if result != nil {
		log.Info().Str("session", result.SessionID).Str("winner", result.WinnerName).
			Str("word", result.Word).Int("guesses", result.Guesses).Msg("round solved")
		if err := o.store.RecordRound(ctx, *result); err != nil {
			log.Warn().Err(err).Str("session", result.SessionID).Msg("record round")
		}
	}
	return nil
}

// RematchVote records that connectionID wants another round. The first vote
// is announced; the opponent's vote starts the next round.
func (o *Orchestrator) RematchVote(connectionID string) error {
	s, err := o.sessionOf(connectionID)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()
	both, err := s.Vote(connectionID)
	if err != nil {
		return err
	}
	if !both {
		o.messenger.SendToGroup(s.ID(), game.Rematch{})
		return nil
	}
	log.Info().Str("session", s.ID()).Int("round", s.Round()+1).Msg("rematch agreed")
	o.startRound(s)
	return nil
}

// Disconnect forgets connectionID. If it was playing, the opponent is told,
// the session is torn down and the opponent goes back to the queue.
func (o *Orchestrator) Disconnect(connectionID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, isPending := o.pending[connectionID]
	_, isNamed := o.named[connectionID]
	delete(o.pending, connectionID)
	delete(o.named, connectionID)

	s := o.lobby.GetSessionByPlayer(connectionID)
	if s == nil {
		o.lobby.RemoveFromWaiting(connectionID)
		if !isPending && !isNamed {
			return game.ErrUnknownConnection
		}
		log.Debug().Str("conn", connectionID).Msg("unpaired connection left")
		return nil
	}

	s.Lock()
	opponent := s.Opponent(connectionID)
	s.End()
	o.messenger.SendToConnection(opponent.ConnectionID, game.Disconnected{})
	s.Unlock()

	o.lobby.RemoveMapping(connectionID)
	o.lobby.RemoveMapping(opponent.ConnectionID)
	o.lobby.EndSession(s.ID())
	o.messenger.RemoveGroup(s.ID())
	log.Info().Str("session", s.ID()).Str("conn", connectionID).Msg("session ended by disconnect")

	if _, ok := o.named[opponent.ConnectionID]; !ok {
		return nil
	}
	if next := o.lobby.JoinPlayer(opponent); next != nil {
		o.startSession(next)
	}
	return nil
}

// Stats reports registry and lobby sizes.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	pending, named := len(o.pending), len(o.named)
	o.mu.Unlock()
	ls := o.lobby.Stats()
	return Stats{Pending: pending, Named: named, Waiting: ls.Waiting, Sessions: ls.Sessions}
}

// sessionOf resolves the live session of connectionID.
func (o *Orchestrator) sessionOf(connectionID string) (*game.Session, error) {
	if s := o.lobby.GetSessionByPlayer(connectionID); s != nil {
		return s, nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.named[connectionID]; ok {
		return nil, game.ErrNotYetPaired
	}
	if _, ok := o.pending[connectionID]; ok {
		return nil, game.ErrNotYetPaired
	}
	return nil, game.ErrUnknownConnection
}

// startSession groups both players and plays the first round.
func (o *Orchestrator) startSession(s *game.Session) {
	o.messenger.AddToGroup(s.Player1().ConnectionID, s.ID())
	o.messenger.AddToGroup(s.Player2().ConnectionID, s.ID())
	log.Info().Str("session", s.ID()).
		Str("player1", s.Player1().Name).Str("player2", s.Player2().Name).Msg("session started")

	s.Lock()
	defer s.Unlock()
	o.startRound(s)
}

// startRound draws a word and announces the round. s must be locked.
func (o *Orchestrator) startRound(s *game.Session) {
	if err := s.StartRound(o.picker.Pick()); err != nil {
		log.Error().Err(err).Str("session", s.ID()).Msg("start round")
		return
	}
	o.messenger.SendToGroup(s.ID(), game.GameStarted{
		WordLength:  s.WordLength(),
		Player1Name: s.Player1().Name,
		Player2Name: s.Player2().Name,
		TurnName:    s.Turn().Name,
	})
}

// IsNoop reports whether err is one of the per-command rejections that
// leave state untouched. Transports log these at debug level.
func IsNoop(err error) bool {
	for _, target := range []error{
		game.ErrUnknownConnection, game.ErrNotYetPaired, game.ErrNotInSession,
		game.ErrInvalidGuess, game.ErrInvalidName, game.ErrNotYourTurn,
		game.ErrSolved, game.ErrEnded, game.ErrRoundInProgress,
		game.ErrDuplicateVote, game.ErrEmptyWord,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
