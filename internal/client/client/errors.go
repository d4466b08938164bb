package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/plantdetector/internal/client/forms"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// NetworkError reports a transport failure: no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes a NetworkError match ErrUnavailable, except when the request was
// abandoned by the caller.
func (e *NetworkError) Is(target error) bool {
	if target != ErrUnavailable {
		return false
	}
	return !errors.Is(e.Err, context.Canceled)
}

// RequestError reports a non-2xx answer. Detail holds the server-provided
// messages, if the body carried any.
type RequestError struct {
	Status int
	Detail []string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message())
}

// Message joins the detail messages, falling back to the status text.
func (e *RequestError) Message() string {
	if len(e.Detail) > 0 {
		return strings.Join(e.Detail, "; ")
	}
	if text := http.StatusText(e.Status); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("status %d", e.Status)
}

func (e *RequestError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// DecodeError reports a 2xx body that does not fit the endpoint schema.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// newRequestError extracts messages from the error bodies the API produces:
//
//	{"detail": "text"}
//	{"detail": [{"msg": "text", ...}, ...]}
//	{"message": "text"}
func newRequestError(status int, body []byte) *RequestError {
	e := &RequestError{Status: status}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}

	if len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil && text != "" {
			e.Detail = []string{text}
			return e
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			for _, it := range items {
				if it.Msg != "" {
					e.Detail = append(e.Detail, it.Msg)
				}
			}
			if len(e.Detail) > 0 {
				return e
			}
		}
	}

	if payload.Message != "" {
		e.Detail = []string{payload.Message}
	}
	return e
}

// Message renders err as the short text shown in a notification. Server
// side failures are matched first: a DecodeError may wrap the
// ValidationError of the response schema check.
func Message(err error) string {
	var (
		ve *forms.ValidationError
		re *RequestError
		ne *NetworkError
		de *DecodeError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &re):
		return re.Message()
	case errors.As(err, &de):
		return "unexpected server response"
	case errors.As(err, &ve):
		return ve.Message()
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.As(err, &ne):
		return "server unavailable"
	default:
		return err.Error()
	}
}
