package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const genericErrorMessage = "An error occurred"

// RequestError is returned for transport failures and non-2xx responses.
// Message is a single human-readable string normalized from whatever error
// shape the backend produced.
type RequestError struct {
	// StatusCode is the HTTP status code, or 0 for transport failures.
	StatusCode int
	// Message is the normalized error message.
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// IsUnauthorized returns true if the server rejected the session token.
func (e *RequestError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound returns true if the requested resource does not exist.
func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AsRequestError checks if an error is a RequestError and returns it.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// ValidationError is a local precondition failure. It is raised before any
// network call is made.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// normalizeError builds a RequestError from a non-2xx response.
func normalizeError(statusCode int, body []byte) *RequestError {
	return &RequestError{
		StatusCode: statusCode,
		Message:    normalizeErrorMessage(statusCode, body),
	}
}

// normalizeErrorMessage extracts a single human-readable message from the
// heterogeneous error shapes the backend produces. Precedence:
//
//  1. "message" as a plain string, used verbatim
//  2. "message" as a list of records, first value of each joined with ", "
//  3. "message" as a single record, its first value
//  4. the "detail" field
//  5. a generic fallback
//
// A body that is not parseable JSON falls back to the HTTP status text.
func normalizeErrorMessage(statusCode int, body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return http.StatusText(statusCode)
	}
	if msg, ok := messageFromField(payload.Message); ok {
		return msg
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return genericErrorMessage
}

func messageFromField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", false
		}
		return s, true
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, el := range list {
			var elStr string
			if err := json.Unmarshal(el, &elStr); err == nil {
				parts = append(parts, elStr)
				continue
			}
			if v, ok := firstObjectValue(el); ok {
				parts = append(parts, v)
			}
		}
		if joined := strings.Join(parts, ", "); joined != "" {
			return joined, true
		}
		return "", false
	}

	if v, ok := firstObjectValue(raw); ok && v != "" {
		return v, true
	}
	return "", false
}

// firstObjectValue returns the first value of a JSON object in document
// order. Decoding through a map would randomize key order, so the token
// stream is walked instead.
func firstObjectValue(raw json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return "", false
	}
	keyTok, err := dec.Token()
	if err != nil {
		return "", false
	}
	if _, ok := keyTok.(string); !ok {
		return "", false
	}
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", v), true
	}
}
