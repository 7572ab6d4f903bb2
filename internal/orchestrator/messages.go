package orchestrator

import (
	"fmt"

	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
)

func guessed(out game.Outcome, next *game.Player) game.Guessed {
	evt := game.Guessed{
		Guess:        out.Guess,
		CorrectGuess: out.Correct(),
		TurnName:     next.Name,
	}
	who := out.Guesser.Name
	switch {
	case out.Repeat:
		evt.Message = fmt.Sprintf("%s has guessed '%s'. The guessed letter was already guessed before.", who, out.Guess)
	case out.Letter && len(out.Positions) == 0:
		evt.Message = fmt.Sprintf("%s has guessed '%s'. The word does not contain the letter '%s'.", who, out.Guess, out.Guess)
	case out.Letter:
		evt.Message = fmt.Sprintf("%s has guessed '%s'!", who, out.Guess)
		evt.Indexes = out.Positions
	default:
		evt.Message = fmt.Sprintf("%s has guessed the word '%s'! That was not the word that we are searching!", who, out.Guess)
	}
	return evt
}

func wordGuessed(winner *game.Player, word string) game.WordGuessed {
	return game.WordGuessed{
		Message:    fmt.Sprintf("%s has guessed the word '%s' correctly! Congratulations!", winner.Name, word),
		WinnerName: winner.Name,
		Word:       word,
	}
}
