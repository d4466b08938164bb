package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/plantdetector/internal/client/forms"
	"github.com/stretchr/testify/assert"
)

func jsonDecode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func TestNewRequestError_DetailShapes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail []string
		msg    string
	}{
		{
			name:   "detail list joined",
			status: http.StatusUnprocessableEntity,
			body:   `{"detail":[{"msg":"field required","loc":["body","email"]},{"msg":"value is not a valid email"}]}`,
			detail: []string{"field required", "value is not a valid email"},
			msg:    "field required; value is not a valid email",
		},
		{
			name:   "detail string",
			status: http.StatusUnauthorized,
			body:   `{"detail":"Not authenticated"}`,
			detail: []string{"Not authenticated"},
			msg:    "Not authenticated",
		},
		{
			name:   "message field",
			status: http.StatusBadRequest,
			body:   `{"message":"bad image"}`,
			detail: []string{"bad image"},
			msg:    "bad image",
		},
		{
			name:   "not json falls back to status text",
			status: http.StatusBadGateway,
			body:   `<html>oops</html>`,
			msg:    "bad gateway",
		},
		{
			name:   "empty detail list falls back",
			status: http.StatusInternalServerError,
			body:   `{"detail":[]}`,
			msg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newRequestError(tt.status, []byte(tt.body))
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.detail, e.Detail)
			assert.Equal(t, tt.msg, e.Message())
		})
	}
}

func TestRequestError_IsUnauthorized(t *testing.T) {
	assert.ErrorIs(t, &RequestError{Status: http.StatusUnauthorized}, ErrUnauthorized)
	assert.ErrorIs(t, &RequestError{Status: http.StatusForbidden}, ErrUnauthorized)
	assert.NotErrorIs(t, &RequestError{Status: http.StatusNotFound}, ErrUnauthorized)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "email is required",
		Message(&forms.ValidationError{Fields: map[string]string{"email": "email is required"}}))
	assert.Equal(t, "x", Message(fmt.Errorf("wrapped: %w", &RequestError{Status: 400, Detail: []string{"x"}})))
	assert.Equal(t, "server unavailable", Message(&NetworkError{Op: "GET /", Err: errors.New("refused")}))
	assert.Equal(t, "unexpected server response", Message(&DecodeError{Endpoint: "/", Err: errors.New("eof")}))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestMessage_SchemaMismatchIsNotFormError(t *testing.T) {
	schemaErr := &forms.ValidationError{Fields: map[string]string{"diseases_name": "diseases_name is required"}}
	err := fmt.Errorf("upload leaf.png: %w", &DecodeError{Endpoint: PathUpload, Err: schemaErr})

	assert.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "unexpected server response", Message(err))
}
