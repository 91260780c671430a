package corebank

import (
	"errors"
	"net/http"
	"strings"

	"encoding/json"
)

// ErrInvalidResponse reports a 2xx response whose body could not be decoded.
// It is wrapped with decode detail; match with errors.Is.
var ErrInvalidResponse = errors.New("corebank: invalid response format")

// APIError is the normalized form of any non-2xx response from the core.
// Message is displayed to the agent verbatim, so it carries exactly what the
// core said, with no decoration.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// parseAPIError extracts a human-readable message from an error response.
// The core usually answers with a JSON body carrying a "mensaje" field;
// some internal services answer "message" instead. Anything else falls back
// to the raw body, or the HTTP status text for an empty body.
func parseAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Mensaje string `json:"mensaje"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Mensaje != "" {
			return &APIError{StatusCode: statusCode, Message: payload.Mensaje}
		}
		if payload.Message != "" {
			return &APIError{StatusCode: statusCode, Message: payload.Message}
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}
