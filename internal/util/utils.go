package util

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// DecodeJSONBody decodes a request body into T.
func DecodeJSONBody[T any](r *http.Request) (T, error) {
	var data T
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		var zero T
		return zero, fmt.Errorf("json decode error: %w", err)
	}
	return data, nil
}

// DecodeJSONBodyResponse decodes a response body into T. Used by API
// clients and integration tests.
func DecodeJSONBodyResponse[T any](r *http.Response) (T, error) {
	var data T
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		var zero T
		return zero, fmt.Errorf("json decode error: %w", err)
	}
	return data, nil
}

func WriteJSONResponse[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
