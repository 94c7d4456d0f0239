package models

import (
	"encoding/json"
	"time"

	"github.com/foureyes/foureyes/pkg/foureyes/domain"
)

const DefaultPageSize = 10

// SubmitActionRequest is the payload for proposing a new action.
// MakerID is filled in by the transport layer from the authenticated
// operator, never trusted from the request body.
type SubmitActionRequest struct {
	ActionType string          `json:"actionType"`
	Payload    json.RawMessage `json:"payload"`
	MakerID    string          `json:"makerId"`
}

// DecisionRequest is the payload for approving or rejecting an action.
type DecisionRequest struct {
	ActionID  string `json:"actionId"`
	CheckerID string `json:"checkerId"`
	Decision  string `json:"decision"`
	Comment   string `json:"comment,omitempty"`
}

// SearchActionsRequest filters the action list. Page is 1-based.
type SearchActionsRequest struct {
	Status     string `json:"status,omitempty"`
	ActionType string `json:"actionType,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"pageSize,omitempty"`
}

// Normalize applies the documented defaults: page 1, size 10.
func (r *SearchActionsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
}

// ActionApiResponse is the API view of a workflow action.
type ActionApiResponse struct {
	ID              string          `json:"id"`
	ActionType      string          `json:"actionType"`
	Status          string          `json:"status"`
	Payload         json.RawMessage `json:"payload"`
	MakerID         string          `json:"makerId"`
	CheckerID       string          `json:"checkerId,omitempty"`
	ReviewComment   string          `json:"reviewComment,omitempty"`
	ExecutionResult json.RawMessage `json:"executionResult,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	ReviewedAt      *time.Time      `json:"reviewedAt,omitempty"`
}

// SearchActionsResponse is a page of actions, newest first.
type SearchActionsResponse struct {
	Items      []ActionApiResponse `json:"items"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
}

// MapActionToApiResponse flattens the sql.Null* columns for JSON callers.
func MapActionToApiResponse(a *domain.WorkflowAction) ActionApiResponse {
	resp := ActionApiResponse{
		ID:         a.ID,
		ActionType: a.ActionType,
		Status:     a.Status,
		Payload:    json.RawMessage(a.Payload),
		MakerID:    a.MakerID,
		CreatedAt:  a.CreatedAt,
	}
	if a.CheckerID.Valid {
		resp.CheckerID = a.CheckerID.String
	}
	if a.ReviewComment.Valid {
		resp.ReviewComment = a.ReviewComment.String
	}
	if a.ExecutionResult.Valid {
		resp.ExecutionResult = json.RawMessage(a.ExecutionResult.String)
	}
	if a.ReviewedAt.Valid {
		t := a.ReviewedAt.Time
		resp.ReviewedAt = &t
	}
	return resp
}
