package core

import (
	"errors"
	"fmt"
)

// ErrorKind identifies a category of core failure so callers can branch
// without string matching.
type ErrorKind string

const (
	KindUnknownActionType ErrorKind = "UNKNOWN_ACTION_TYPE"
	KindValidation        ErrorKind = "VALIDATION"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindSelfReview        ErrorKind = "SELF_REVIEW"
	KindAlreadyDecided    ErrorKind = "ALREADY_DECIDED"
	KindExecution         ErrorKind = "EXECUTION"
)

// Error is the structured error returned by the engine, registry and
// handlers. Fields carries per-field validation reasons when present.
type Error struct {
	Kind    ErrorKind         `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewUnknownActionTypeError(actionType string) *Error {
	return &Error{Kind: KindUnknownActionType, Message: fmt.Sprintf("no handler registered for action type %q", actionType)}
}

func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NewNotFoundError(id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("action %s not found", id)}
}

func NewSelfReviewError(checkerID string) *Error {
	return &Error{Kind: KindSelfReview, Message: fmt.Sprintf("checker %s may not review their own action", checkerID)}
}

func NewAlreadyDecidedError(id string, status string) *Error {
	return &Error{Kind: KindAlreadyDecided, Message: fmt.Sprintf("action %s is already %s", id, status)}
}

func NewExecutionError(message string, cause error) *Error {
	return &Error{Kind: KindExecution, Message: message, cause: cause}
}

// KindOf returns the kind of err, or the empty string when err is not a
// core Error.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// IsKind reports whether err is a core Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
