package stream

import (
	"encoding/json"
	"time"

	"github.com/lox/playnine/internal/config"
	"github.com/lox/playnine/internal/game"
	"github.com/lox/playnine/internal/simulator"
)

// MessageType identifies a websocket message.
type MessageType string

// Client → Server
const (
	TypeRun    MessageType = "run"
	TypeCancel MessageType = "cancel"
)

// Server → Client
const (
	TypeStarted  MessageType = "started"
	TypeProgress MessageType = "progress"
	TypeMatch    MessageType = "match"
	TypeResult   MessageType = "result"
	TypeError    MessageType = "error"
)

// Message is the envelope for every frame in either direction.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: time.Now()}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = b
	}
	return msg, nil
}

// RunRequest asks for a simulation. Omitted fields keep the server's
// defaults.
type RunRequest struct {
	TargetScore *int    `json:"target_score,omitempty"`
	Rounds      *int    `json:"rounds,omitempty"`
	Simulations *int    `json:"simulations,omitempty"`
	Predicate   *string `json:"predicate,omitempty"`
	Mode        *string `json:"mode,omitempty"`
	Seed        *int64  `json:"seed,omitempty"`
}

// Apply overlays the request on base and validates the outcome.
func (r RunRequest) Apply(base simulator.Config) (simulator.Config, error) {
	cfg := base
	if r.TargetScore != nil {
		cfg.TargetScore = *r.TargetScore
	}
	if r.Rounds != nil {
		cfg.Rounds = *r.Rounds
	}
	if r.Simulations != nil {
		cfg.Simulations = *r.Simulations
	}
	if r.Predicate != nil {
		p, err := simulator.ParsePredicate(*r.Predicate)
		if err != nil {
			return cfg, err
		}
		cfg.Predicate = p
	}
	if r.Mode != nil {
		m, err := game.ParseMode(*r.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = m
	}
	if r.Seed != nil {
		cfg.Seed = *r.Seed
	}
	return cfg, config.Validate(cfg)
}

type StartedData struct {
	TargetScore int                 `json:"target_score"`
	Rounds      int                 `json:"rounds"`
	Simulations int                 `json:"simulations"`
	Predicate   simulator.Predicate `json:"predicate"`
	Mode        game.Mode           `json:"mode"`
	Description string              `json:"description"`
}

type ProgressData struct {
	Percent int `json:"percent"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeBadRequest = "bad_request"
	CodeBusy       = "busy"
	CodeTooLarge   = "too_large"
	CodeRunFailed  = "run_failed"
)
