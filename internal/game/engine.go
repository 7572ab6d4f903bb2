// apps/go-server/internal/game/engine.go
//
// Turn state machine for a single session.
// Responsibilities:
//   - Start rounds: fresh word, cleared guesses, reset votes, player1 to move.
//   - Apply letter and word guesses, alternating the turn on every guess
//     that does not solve the round.
//   - Detect the solve (all distinct letters revealed, or exact word match).
//   - Collect rematch votes keyed by player slot.
//
// Notes:
//   - The caller serialises access with Lock/Unlock; see Session.
//   - Words are compared in uppercase; a word guess is case-insensitive.
package game

import (
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// NewSession pairs p1 (the longer-waiting player) with p2.
// The session has no word until StartRound is called.
func NewSession(id string, p1, p2 *Player) *Session {
	return &Session{
		id:      id,
		players: [2]*Player{p1, p2},
		guessed: make(map[rune]struct{}),
	}
}

// Lock acquires the session lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Player1 is the player who waited in the queue.
func (s *Session) Player1() *Player { return s.players[0] }

// Player2 is the player whose arrival created the session.
func (s *Session) Player2() *Player { return s.players[1] }

// StartRound begins a new round with word.
func (s *Session) StartRound(word string) error {
	if s.ended {
		return ErrEnded
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" {
		return ErrEmptyWord
	}
	s.word = word
	clear(s.guessed)
	s.solved = false
	s.votes = [2]bool{}
	s.turn = 0
	s.guesses = 0
	s.round++
	return nil
}

// State reports the lifecycle state.
func (s *Session) State() State {
	switch {
	case s.ended:
		return StateEnded
	case s.solved:
		return StateSolved
	}
	return StateInProgress
}

// Word returns the secret word of the current round.
func (s *Session) Word() string { return s.word }

// WordLength is the number of letters in the secret word.
func (s *Session) WordLength() int { return len([]rune(s.word)) }

// Round returns the 1-based round number.
func (s *Session) Round() int { return s.round }

// Guesses returns the number of guesses processed this round.
func (s *Session) Guesses() int { return s.guesses }

// Turn returns the player allowed to guess next.
func (s *Session) Turn() *Player { return s.players[s.turn] }

// GuessedLetters returns the letters guessed this round, sorted.
func (s *Session) GuessedLetters() []rune {
	out := lo.Keys(s.guessed)
	slices.Sort(out)
	return out
}

// Votes returns a copy of the rematch vote slots.
func (s *Session) Votes() [2]bool { return s.votes }

// End marks the session as torn down. Later commands fail with ErrEnded.
func (s *Session) End() { s.ended = true }

// Slot returns 0 for player1, 1 for player2.
func (s *Session) Slot(connectionID string) (int, bool) {
	for i, p := range s.players {
		if p.ConnectionID == connectionID {
			return i, true
		}
	}
	return 0, false
}

// Opponent returns the other player, or nil if connectionID is not in the session.
func (s *Session) Opponent(connectionID string) *Player {
	slot, ok := s.Slot(connectionID)
	if !ok {
		return nil
	}
	return s.players[1-slot]
}

// GuessLetter applies a single-letter guess from connectionID.
//
// A new letter is recorded and its positions reported; when it reveals the
// last hidden letter the round is solved and the turn stays put. Otherwise,
// including for a repeat, the turn passes to the opponent.
func (s *Session) GuessLetter(connectionID string, letter rune) (Outcome, error) {
	slot, err := s.checkGuess(connectionID)
	if err != nil {
		return Outcome{}, err
	}
	letter = unicode.ToUpper(letter)
	out := Outcome{Guesser: s.players[slot], Guess: string(letter), Letter: true}
	s.guesses++

	if _, seen := s.guessed[letter]; seen {
		out.Repeat = true
		s.pass(slot)
		return out, nil
	}
	s.guessed[letter] = struct{}{}
	out.Positions = positions(s.word, letter)

	if len(out.Positions) > 0 && s.revealed() {
		s.solved = true
		out.Solved = true
		return out, nil
	}
	s.pass(slot)
	return out, nil
}

// GuessWord applies a full-word guess from connectionID.
func (s *Session) GuessWord(connectionID, word string) (Outcome, error) {
	slot, err := s.checkGuess(connectionID)
	if err != nil {
		return Outcome{}, err
	}
	word = strings.TrimSpace(word)
	if word == "" {
		return Outcome{}, ErrInvalidGuess
	}
	out := Outcome{Guesser: s.players[slot], Guess: word}
	s.guesses++

	if strings.EqualFold(word, s.word) {
		s.solved = true
		out.Solved = true
		return out, nil
	}
	s.pass(slot)
	return out, nil
}

// Vote records a rematch vote from connectionID.
// It returns true once both players have voted; the caller then starts the
// next round, which resets the votes.
func (s *Session) Vote(connectionID string) (bool, error) {
	if s.ended {
		return false, ErrEnded
	}
	slot, ok := s.Slot(connectionID)
	if !ok {
		return false, ErrNotInSession
	}
	if !s.solved {
		return false, ErrRoundInProgress
	}
	if s.votes[slot] {
		return false, ErrDuplicateVote
	}
	s.votes[slot] = true
	return s.votes[0] && s.votes[1], nil
}

// checkGuess validates that connectionID may guess now and returns its slot.
func (s *Session) checkGuess(connectionID string) (int, error) {
	if s.ended {
		return 0, ErrEnded
	}
	slot, ok := s.Slot(connectionID)
	if !ok {
		return 0, ErrNotInSession
	}
	if s.word == "" {
		return 0, ErrEmptyWord
	}
	if s.solved {
		return 0, ErrSolved
	}
	if slot != s.turn {
		return 0, ErrNotYourTurn
	}
	return slot, nil
}

// pass hands the turn to the player who did not just guess.
func (s *Session) pass(guesser int) { s.turn = 1 - guesser }

// revealed reports whether every distinct letter of the word has been guessed.
func (s *Session) revealed() bool {
	return lo.EveryBy(lo.Uniq([]rune(s.word)), func(r rune) bool {
		_, ok := s.guessed[r]
		return ok
	})
}

// positions returns every zero-based rune index of letter in word.
func positions(word string, letter rune) []int {
	var out []int
	for i, r := range []rune(word) {
		if r == letter {
			out = append(out, i)
		}
	}
	return out
}
