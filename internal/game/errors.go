package game

import "errors"

var (
	ErrUnknownConnection = errors.New("unknown connection")
	ErrNotYetPaired      = errors.New("player is not paired yet")
	ErrNotInSession      = errors.New("player does not belong to this session")
	ErrInvalidGuess      = errors.New("invalid guess")
	ErrInvalidName       = errors.New("invalid name")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrSolved            = errors.New("round already solved")
	ErrEnded             = errors.New("session ended")
	ErrRoundInProgress   = errors.New("round still in progress")
	ErrDuplicateVote     = errors.New("rematch vote already cast")
	ErrEmptyWord         = errors.New("secret word is empty")
)
