package domain

import (
	"database/sql"
	"time"
)

// Action statuses. An action starts PENDING and moves exactly once to a
// terminal status when a checker decides it.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Decision verbs accepted on the review path.
const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

// WorkflowAction is a proposed state change waiting for (or past) review.
// Payload holds the maker's original JSON document and is never rewritten;
// ExecutionResult is filled in only when an approval ran the handler.
type WorkflowAction struct {
	ID              string         `json:"id"`
	ActionType      string         `json:"actionType"`
	Status          string         `json:"status"`
	Payload         string         `json:"payload"`
	MakerID         string         `json:"makerId"`
	CheckerID       sql.NullString `json:"checkerId"`
	ReviewComment   sql.NullString `json:"reviewComment"`
	ExecutionResult sql.NullString `json:"executionResult"`
	CreatedAt       time.Time      `json:"createdAt"`
	ReviewedAt      sql.NullTime   `json:"reviewedAt"`
}

// Terminal reports whether the action has already been decided.
func (a *WorkflowAction) Terminal() bool {
	return a.Status == StatusApproved || a.Status == StatusRejected
}
