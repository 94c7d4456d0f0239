package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := NewSelfReviewError("m1")
	if KindOf(err) != KindSelfReview {
		t.Errorf("Expected kind %s, got %s", KindSelfReview, KindOf(err))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Errorf("Expected empty kind for non-core error")
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := NewAlreadyDecidedError("a1", "APPROVED")
	wrapped := fmt.Errorf("decide failed: %w", inner)
	if !IsKind(wrapped, KindAlreadyDecided) {
		t.Errorf("Expected wrapped error to keep kind %s", KindAlreadyDecided)
	}
}

func TestExecutionErrorUnwrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewExecutionError("email already taken", cause)
	if !errors.Is(err, cause) {
		t.Errorf("Expected execution error to unwrap to its cause")
	}
	if err.Error() == "" {
		t.Errorf("Expected non-empty error string")
	}
}

func TestValidationErrorFields(t *testing.T) {
	err := NewValidationError("payload failed validation", map[string]string{"email": "required"})
	if err.Fields["email"] != "required" {
		t.Errorf("Expected field reason to survive, got %v", err.Fields)
	}
}
