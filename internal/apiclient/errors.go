package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// Kind classify an APIError
type Kind string

// Error kinds
const (
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindClient       Kind = "client"
)

// APIError is the normalized form of every failed call
type APIError struct {
	Kind      Kind
	Message   string
	Status    int
	Details   map[string][]string
	Retryable bool
	Timestamp time.Time
	RequestID string
	Err       error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRetryable is consulted by the retry classifier
func (e *APIError) IsRetryable() bool {
	return e.Retryable
}

// FieldError returns the first message for field, empty when there is none
func (e *APIError) FieldError(field string) string {
	if msgs := e.Details[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// IsKind reports whether err is an APIError of kind
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// KindFromStatus maps an HTTP status to a Kind
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusRequestTimeout:
		return KindTimeout
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindClient
	}
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500
}

var messageKeys = []string{"detail", "message", "error", "non_field_errors.0"}

// reserved top level keys that never hold field errors
var reservedKeys = map[string]bool{
	"detail": true, "message": true, "error": true, "details": true,
	"non_field_errors": true, "code": true, "status": true,
}

// newHTTPError builds an APIError from a non 2xx response body
func newHTTPError(status int, body []byte, requestID string) *APIError {
	kind := KindFromStatus(status)
	apiErr := &APIError{
		Kind:      kind,
		Message:   http.StatusText(status),
		Status:    status,
		Retryable: retryableStatus(status),
		Timestamp: time.Now(),
		RequestID: requestID,
	}

	if !gjson.ValidBytes(body) {
		return apiErr
	}

	for _, key := range messageKeys {
		if msg := gjson.GetBytes(body, key); msg.Exists() && msg.String() != "" {
			apiErr.Message = msg.String()
			break
		}
	}

	details := map[string][]string{}
	if d := gjson.GetBytes(body, "details"); d.IsObject() {
		d.ForEach(func(field, value gjson.Result) bool {
			addDetail(details, field.String(), value)
			return true
		})
	} else if kind == KindValidation {
		gjson.ParseBytes(body).ForEach(func(field, value gjson.Result) bool {
			if !reservedKeys[field.String()] {
				addDetail(details, field.String(), value)
			}
			return true
		})
	}
	if nfe := gjson.GetBytes(body, "non_field_errors"); nfe.IsArray() {
		addDetail(details, "non_field_errors", nfe)
	}
	if len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

func addDetail(details map[string][]string, field string, value gjson.Result) {
	switch {
	case value.IsArray():
		for _, msg := range value.Array() {
			if msg.Type == gjson.String {
				details[field] = append(details[field], msg.String())
			}
		}
	case value.Type == gjson.String:
		details[field] = append(details[field], value.String())
	}
}

func newTransportError(kind Kind, err error, requestID string) *APIError {
	msg := "Network error. Check your connection and try again."
	if kind == KindTimeout {
		msg = "The request timed out. Try again."
	}
	return &APIError{
		Kind:      kind,
		Message:   msg,
		Retryable: true,
		Timestamp: time.Now(),
		RequestID: requestID,
		Err:       err,
	}
}
