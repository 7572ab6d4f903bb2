package game

// Event is an outbound notification. EventName is the wire name clients
// subscribe to; the struct itself is the payload.
type Event interface {
	EventName() string
}

// Event names.
const (
	EventConnected    = "Connected"
	EventGameStarted  = "GameStarted"
	EventGuessed      = "Guessed"
	EventWordGuessed  = "WordGuessed"
	EventRematch      = "Rematch"
	EventDisconnected = "Disconnected"
)

// Connected acknowledges a new connection to that connection only.
type Connected struct {
	ConnectionID string `json:"connectionId"`
}

// GameStarted is broadcast to the session group at the start of every round.
type GameStarted struct {
	WordLength  int    `json:"wordLength"`
	Player1Name string `json:"player1Name"`
	Player2Name string `json:"player2Name"`
	TurnName    string `json:"turnName"`
}

// Guessed reports a guess that did not solve the round.
// Indexes is only set for a correct letter.
type Guessed struct {
	Guess        string `json:"guess"`
	Message      string `json:"message"`
	CorrectGuess bool   `json:"correctGuess"`
	Indexes      []int  `json:"indexes,omitempty"`
	TurnName     string `json:"turnName"`
}

// WordGuessed announces the end of a round.
type WordGuessed struct {
	Message    string `json:"message"`
	WinnerName string `json:"winnerName"`
	Word       string `json:"word"`
}

// Rematch tells the group that one player asked for another round.
type Rematch struct{}

// Disconnected tells the remaining player that the opponent left.
type Disconnected struct{}

func (Connected) EventName() string    { return EventConnected }
func (GameStarted) EventName() string  { return EventGameStarted }
func (Guessed) EventName() string      { return EventGuessed }
func (WordGuessed) EventName() string  { return EventWordGuessed }
func (Rematch) EventName() string      { return EventRematch }
func (Disconnected) EventName() string { return EventDisconnected }
