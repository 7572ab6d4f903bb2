// apps/go-server/internal/game/types.go
//
// Core type definitions for a two-player word duel.
// Defines:
//   - Player: an opaque connection id plus an optional display name.
//   - State: coarse lifecycle of a session (in progress, solved, ended).
//   - Session: state shared by the two players of one pairing.
//   - Outcome: what a processed guess did, for the caller to announce.

package game

import "sync"

// Player is one connection taking part in the duel.
// An empty Name means the player is still pending.
type Player struct {
	ConnectionID string
	Name         string
}

// Named reports whether the player has registered a display name.
func (p *Player) Named() bool { return p.Name != "" }

// State of a session's current round.
type State int

const (
	StateInProgress State = iota // guesses accepted, turn alternates
	StateSolved                  // word found; only rematch votes accepted
	StateEnded                   // torn down after a disconnect
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateSolved:
		return "solved"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// Session holds the state of one pairing across its rounds.
// Every method other than the constructor and the immutable accessors
// (ID, Player1, Player2) must be called with the session locked.
type Session struct {
	mu sync.Mutex

	id      string
	players [2]*Player

	word    string
	guessed map[rune]struct{}
	solved  bool
	ended   bool
	turn    int     // slot of the player allowed to guess
	votes   [2]bool // rematch votes, indexed by slot
	round   int     // 1-based; 0 until the first StartRound
	guesses int     // guesses processed in the current round
}

// Outcome describes a processed guess.
type Outcome struct {
	Guesser   *Player
	Guess     string // uppercased letter, or the word as submitted
	Letter    bool   // single-letter guess
	Positions []int  // zero-based positions of a correct letter
	Repeat    bool   // letter was already guessed this round
	Solved    bool   // this guess completed the word
}

// Correct reports whether the guess revealed something or solved the word.
func (o Outcome) Correct() bool { return o.Solved || len(o.Positions) > 0 }
