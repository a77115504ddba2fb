package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrAuthRequired means the session is gone: the request was rejected with
// 401 and no refresh was possible. Tokens have already been cleared.
var ErrAuthRequired = errors.New("authentication required")

const defaultErrorMessage = "An error occurred"

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// NotFound reports whether err is a 404 from the backend.
func NotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// parseError builds an APIError from a failed response body. The message is
// taken from detail or message, then the raw text, then the status text.
func parseError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Message: defaultErrorMessage}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err == nil && data != nil {
		if msg := messageField(data, "detail"); msg != "" {
			e.Message = msg
		} else if msg := messageField(data, "message"); msg != "" {
			e.Message = msg
		}
		if nested, ok := data["errors"].(map[string]any); ok {
			e.Errors = nested
		} else {
			e.Errors = data
		}
		return e
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		e.Message = text
	} else if st := http.StatusText(status); st != "" {
		e.Message = st
	}
	return e
}

// messageField reads a string field; FastAPI validation errors put a list
// under detail, in which case the first entry's msg is used.
func messageField(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case []any:
		if len(v) == 0 {
			return ""
		}
		if first, ok := v[0].(map[string]any); ok {
			if msg, ok := first["msg"].(string); ok {
				return msg
			}
		}
		if s, ok := v[0].(string); ok {
			return s
		}
	}
	return ""
}

// Message is the user-facing text for err. Transport failures get a generic
// message; backend errors keep what the backend said.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != defaultErrorMessage {
		return apiErr.Message
	}
	return fallback
}
