package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnexpectedFormat marks a successful response whose body could not be
// understood.
var ErrUnexpectedFormat = errors.New("unexpected response format")

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNetwork      ErrorKind = "network"
	KindServer       ErrorKind = "server"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
)

// APIError is the single shape every failed call is reported in.
// Status is 0 when no response arrived.
type APIError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Errors  []string  `json:"errors,omitempty"`
	Status  int       `json:"status"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Errors, "; "))
	}
	return e.Message
}

func NewValidationError(errs []string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  errs,
		Status:  http.StatusBadRequest,
	}
}

func networkError(err error) *APIError {
	return &APIError{
		Kind:    KindNetwork,
		Message: "No response from server. Check your network connection.",
		Errors:  []string{err.Error()},
	}
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// AsAPIError wraps any error into an APIError, keeping one if already present.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Kind: KindServer, Message: err.Error()}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

// parseErrorBody accepts {"message","errors"}, a JSON string or plain text.
func parseErrorBody(status int, body []byte) *APIError {
	apiErr := &APIError{Kind: kindForStatus(status), Status: status}

	trimmed := strings.TrimSpace(string(body))
	var structured struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	var text string

	switch {
	case json.Unmarshal(body, &structured) == nil:
		apiErr.Message = structured.Message
		if apiErr.Message == "" {
			apiErr.Message = structured.Error
		}
		apiErr.Errors = parseErrorList(structured.Errors)
	case json.Unmarshal(body, &text) == nil:
		apiErr.Message = text
	default:
		apiErr.Message = trimmed
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func parseErrorList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var byField map[string]string
	if json.Unmarshal(raw, &byField) == nil {
		for field, msg := range byField {
			list = append(list, field+": "+msg)
		}
		return list
	}
	var single string
	if json.Unmarshal(raw, &single) == nil && single != "" {
		return []string{single}
	}
	return nil
}
