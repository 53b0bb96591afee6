package server

import (
	"encoding/json"
	"time"
)

// MessageType identifies a websocket message
type MessageType string

const (
	// Client -> Server
	MessageTypeEvaluate MessageType = "evaluate"

	// Server -> Client
	MessageTypeOdds  MessageType = "odds"
	MessageTypeError MessageType = "error"
)

// Message is the base websocket envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// EvaluateData asks for the odds of a race state given in compact
// notation
type EvaluateData struct {
	State  string `json:"state"`
	Trials int    `json:"trials,omitempty"`
	Seed   *int64 `json:"seed,omitempty"`
	Race   bool   `json:"race,omitempty"`
	Bets   bool   `json:"bets,omitempty"`
}

// CamelOddsData carries the per-camel probabilities
type CamelOddsData struct {
	Camel        string   `json:"camel"`
	LegFirst     float64  `json:"legFirst"`
	LegSecond    float64  `json:"legSecond"`
	ExpectedTile float64  `json:"expectedTile"`
	RaceWin      *float64 `json:"raceWin,omitempty"`
	RaceLose     *float64 `json:"raceLose,omitempty"`
}

// BetData is one ranked bet
type BetData struct {
	Kind   string  `json:"kind"`
	Camel  string  `json:"camel"`
	Payout int     `json:"payout"`
	EV     float64 `json:"ev"`
}

// OddsData is the evaluation result
type OddsData struct {
	State  string          `json:"state"`
	Leg    int             `json:"leg"`
	Worlds uint64          `json:"worlds"`
	Trials int             `json:"trials,omitempty"`
	Camels []CamelOddsData `json:"camels"`
	Bets   []BetData       `json:"bets,omitempty"`
}

// ErrorData reports a failed request
type ErrorData struct {
	Message string `json:"message"`
}
