package types

import "github.com/wordchain/backend/internal/engine"

type ClientMessage struct {
	Type string `json:"type"` // "Join" | "Leave" | "Start" | "AddWord" | "ClearWords"
	Word string `json:"word,omitempty"`
	// SentAt is the client's submission time in unix milliseconds; the
	// server bounds how old it may be.
	SentAt int64 `json:"sent_at,omitempty"`
}

type ServerMessage struct {
	Type    string        `json:"type"` // "StateSnapshot" | "Error"
	Version int           `json:"version,omitempty"`
	State   *engine.State `json:"state,omitempty"`
	Host    string        `json:"host,omitempty"`
	Error   string        `json:"error,omitempty"`
}
