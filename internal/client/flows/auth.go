package flows

import (
	"context"

	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/client/services"
)

// None is the output of flows that only report success.
type None struct{}

type (
	SignInFlow = Flow[models.Credentials, None]
	SignUpFlow = Flow[models.RegistrationRequest, None]
	LogoutFlow = Flow[None, None]
)

// NewSignIn stores the issued token in the session on success.
func NewSignIn(auth services.AuthService, opts Options) *SignInFlow {
	return newFlow[models.Credentials, None]("signin", func(ctx context.Context, in models.Credentials) (None, error) {
		return None{}, auth.Login(ctx, in)
	}, "Signed in successfully!", "Sign in failed", opts)
}

func NewSignUp(auth services.AuthService, opts Options) *SignUpFlow {
	return newFlow[models.RegistrationRequest, None]("signup", func(ctx context.Context, in models.RegistrationRequest) (None, error) {
		return None{}, auth.Register(ctx, in)
	}, "Signed up successfully!", "Sign up failed", opts)
}

// NewLogout signs out locally even when the server call fails; only a
// failure to clear local storage is reported as an error.
func NewLogout(auth services.AuthService, opts Options) *LogoutFlow {
	f := newFlow[None, None]("logout", func(ctx context.Context, _ None) (None, error) {
		return None{}, auth.Logout(ctx)
	}, "Signed out", "Sign out failed", opts)
	f.validate = func(any) error { return nil }
	return f
}
