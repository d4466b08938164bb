package client

import (
	"net/http"

	"github.com/dmitrijs2005/plantdetector/internal/common"
	"github.com/google/uuid"
)

// RequestStage prepares an outbound request before it is sent. Stages run in
// the order they were given to NewHTTPClient; an error aborts the request.
type RequestStage func(req *http.Request) error

// TokenSource yields the current bearer token, or "" when there is none.
// *session.Session satisfies it.
type TokenSource interface {
	Token() string
}

// BearerToken attaches "Authorization: Bearer <token>" when src holds a
// token. Without a token the request goes out unauthenticated.
func BearerToken(src TokenSource) RequestStage {
	return func(req *http.Request) error {
		if token := src.Token(); token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
		}
		return nil
	}
}

// RequestID tags the request with a fresh X-Request-ID unless the caller
// already set one.
func RequestID() RequestStage {
	return func(req *http.Request) error {
		if req.Header.Get(common.RequestIDHeaderName) == "" {
			req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
		}
		return nil
	}
}

// UserAgent sets the User-Agent header.
func UserAgent(agent string) RequestStage {
	return func(req *http.Request) error {
		req.Header.Set("User-Agent", agent)
		return nil
	}
}
