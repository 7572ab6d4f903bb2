package ws

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	cmdRegisterName = "registerName"
	cmdGuess        = "guess"
	cmdRematch      = "rematch"
)

// command is the inbound wire format.
type command struct {
	Type  string `json:"type" validate:"required,oneof=registerName guess rematch"`
	Name  string `json:"name" validate:"required_if=Type registerName,max=24"`
	Guess string `json:"guess" validate:"required_if=Type guess,max=64"`
}

func decodeCommand(v *validator.Validate, data []byte) (command, error) {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return command{}, fmt.Errorf("decode command: %w", err)
	}
	if err := v.Struct(cmd); err != nil {
		return command{}, fmt.Errorf("validate command: %w", err)
	}
	return cmd, nil
}
