package core

import (
	"database/sql"
	"encoding/json"
)

// ActionMeta describes one registered action type for discovery by
// external callers (for example to render available action categories).
type ActionMeta struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Handler implements the business rules of a single action type.
//
// Validate must be side effect free. It checks schema level rules
// (required fields, formats, ranges, cross field consistency) and cheap
// referential reads, and returns a KindValidation Error when the payload
// is unacceptable.
//
// Execute performs the real side effect. It runs inside the same
// transaction as the status transition of the approving decision, so a
// failure rolls the whole approval back and the action stays PENDING.
// Uniqueness and business constraints are enforced here, against the
// store, never by a prior read. Execute returns a KindExecution Error on
// constraint violations and a JSON summary of what it created on success.
type Handler interface {
	Meta() ActionMeta
	Validate(payload json.RawMessage) error
	Execute(tx *sql.Tx, payload json.RawMessage) (json.RawMessage, error)
}
