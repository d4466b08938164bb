// Package services contains application services for the Plant Disease
// Detector client. This file defines the authentication service: sign-in,
// sign-up, sign-out and the liveness probe.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/plantdetector/internal/client/client"
	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/logging"
)

// SessionStore is the part of the session the services mutate.
// *session.Session satisfies it.
type SessionStore interface {
	Login(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate against the server and store the issued token.
//   - Register: create a new account on the server; the session is untouched.
//   - Logout: notify the server, then clear the session whatever the server said.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) error
	Register(ctx context.Context, req models.RegistrationRequest) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session SessionStore
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// session.
func NewAuthService(c client.Client, s SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{client: c, session: s, log: log}
}

// Login exchanges credentials for an access token and persists it. The
// session is only touched once the server accepted the credentials.
func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	token, err := a.client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.session.Login(ctx, token); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, req models.RegistrationRequest) error {
	if err := a.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout asks the server to end the session and clears it locally. A server
// failure is logged and does not prevent the local sign-out; only a failure
// to clear local storage is returned.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "server logout failed", "error", err)
	}
	if err := a.session.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
