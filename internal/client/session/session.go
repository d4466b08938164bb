// Package session holds the client's authentication state: whether the user
// is signed in and the bearer token to present to the API.
//
// The state is persisted in the local metadata store under
// common.AuthenticatedKey and common.AccessTokenKey, so it survives
// restarts until cleared explicitly. A Session is created once at startup by
// Load and then passed to the HTTP client (as its token source) and to the
// flows that sign in and out.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/plantdetector/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/plantdetector/internal/common"
	"github.com/dmitrijs2005/plantdetector/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

const flagTrue = "true"

// Session is safe for concurrent use.
type Session struct {
	db *sql.DB

	mu            sync.RWMutex
	authenticated bool
	token         string
}

// Load reads the persisted state. A stored flag without a token (or a token
// without the flag) is treated as signed out and the leftovers are removed.
func Load(ctx context.Context, db *sql.DB) (*Session, error) {
	s := &Session{db: db}
	repo := metadata.NewSQLiteRepository(db)

	flag, err := get(ctx, repo, common.AuthenticatedKey)
	if err != nil {
		return nil, err
	}
	token, err := get(ctx, repo, common.AccessTokenKey)
	if err != nil {
		return nil, err
	}

	if flag == flagTrue && token != "" {
		s.authenticated = true
		s.token = token
		return s, nil
	}

	if flag != "" || token != "" {
		if err := repo.Delete(ctx, common.AuthenticatedKey, common.AccessTokenKey); err != nil {
			return nil, fmt.Errorf("reset session: %w", err)
		}
	}
	return s, nil
}

func get(ctx context.Context, repo metadata.Repository, key string) (string, error) {
	v, err := repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	return string(v), nil
}

// Login persists token and marks the session authenticated. Both values are
// written in one transaction; on error the in-memory state is unchanged.
func (s *Session) Login(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrEmptyToken
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.AuthenticatedKey, []byte(flagTrue))
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.authenticated = true
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear signs the session out. The in-memory state is cleared first and
// stays cleared even if removing the persisted copy fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.authenticated = false
	s.token = ""
	s.mu.Unlock()

	repo := metadata.NewSQLiteRepository(s.db)
	if err := repo.Delete(ctx, common.AuthenticatedKey, common.AccessTokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subject returns the "email" (or else "sub") claim of the token for display.
// The signature is not checked. Opaque tokens yield "".
func (s *Session) Subject() string {
	token := s.Token()
	if token == "" {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	sub, _ := claims.GetSubject()
	return sub
}
