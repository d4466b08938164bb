package client

import (
	"context"

	"github.com/dmitrijs2005/plantdetector/internal/client/models"
)

// API paths, relative to the configured base URL.
const (
	PathPing     = "/"
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathLogout   = "/users/logout"
	PathUpload   = "/diseases/upload"
	PathDiseases = "/diseases/all"
	PathHistory  = "/history/all"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req models.RegistrationRequest) error
	Upload(ctx context.Context, req models.UploadRequest) (*models.AnalysisResult, error)
	Diseases(ctx context.Context) ([]models.Disease, error)
	History(ctx context.Context) ([]models.HistoryEntry, error)
}
