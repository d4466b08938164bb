package flows

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/plantdetector/internal/client/client"
	"github.com/dmitrijs2005/plantdetector/internal/client/forms"
	"github.com/dmitrijs2005/plantdetector/internal/client/models"
	"github.com/dmitrijs2005/plantdetector/internal/client/services"
	"github.com/dmitrijs2005/plantdetector/internal/client/session"
	"github.com/dmitrijs2005/plantdetector/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBlob = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type recorder struct {
	mu  sync.Mutex
	ok  []string
	bad []string
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ok = append(r.ok, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bad = append(r.bad, msg)
}

type env struct {
	srv      *fakeapi.Server
	session  *session.Session
	auth     services.AuthService
	diseases services.DiseaseService
	notes    *recorder
	opts     Options
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := session.Load(ctx, db)
	require.NoError(t, err)

	srv := fakeapi.New(t)
	c, err := client.NewHTTPClient(srv.URL, 5*time.Second, nil, client.BearerToken(s), client.RequestID())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	rec := &recorder{}
	return &env{
		srv:      srv,
		session:  s,
		auth:     services.NewAuthService(c, s, nil),
		diseases: services.NewDiseaseService(c),
		notes:    rec,
		opts:     Options{Notifier: rec},
	}
}

func TestSignIn_InvalidCredentials_NoNetworkCall(t *testing.T) {
	e := newEnv(t)
	f := NewSignIn(e.auth, e.opts)

	inputs := []models.Credentials{
		{},
		{Email: "ann@example.org"},
		{Email: "not-an-email", Password: "secret77"},
		{Password: "secret77"},
	}
	for _, in := range inputs {
		_, err := f.Submit(context.Background(), in)
		var ve *forms.ValidationError
		require.True(t, errors.As(err, &ve), "input %+v", in)
		require.Equal(t, Idle, f.State())
		require.NotEmpty(t, f.FieldErrors())
	}

	assert.Equal(t, 0, e.srv.Calls(http.MethodPost, client.PathLogin))
	assert.Empty(t, e.notes.ok)
	assert.Empty(t, e.notes.bad)
}

func TestSignIn_Success_TokenAttachedAfterwards(t *testing.T) {
	e := newEnv(t)
	e.srv.AddUser("Ann", "ann@example.org", "secret77")
	f := NewSignIn(e.auth, e.opts)
	ctx := context.Background()

	_, err := f.Submit(ctx, models.Credentials{Email: "ann@example.org", Password: "secret77"})
	require.NoError(t, err)
	require.Equal(t, Succeeded, f.State())
	require.True(t, e.session.IsAuthenticated())
	require.Equal(t, fakeapi.Token, e.session.Token())
	require.Equal(t, []string{"Signed in successfully!"}, e.notes.ok)

	_, err = e.diseases.History(ctx)
	require.NoError(t, err)
	_, err = e.diseases.Diseases(ctx)
	require.NoError(t, err)
	_, err = e.diseases.Analyze(ctx, models.UploadRequest{Filename: "leaf.png", Image: pngBlob})
	require.NoError(t, err)

	want := "Bearer " + fakeapi.Token
	assert.Equal(t, want, e.srv.Authorization(http.MethodGet, client.PathHistory))
	assert.Equal(t, want, e.srv.Authorization(http.MethodGet, client.PathDiseases))
	assert.Equal(t, want, e.srv.Authorization(http.MethodPost, client.PathUpload))
}

func TestSignIn_401_NotifiesServerMessage(t *testing.T) {
	e := newEnv(t)
	f := NewSignIn(e.auth, e.opts)

	in := models.Credentials{Email: "ann@example.org", Password: "wrong-password"}
	_, err := f.Submit(context.Background(), in)
	require.ErrorIs(t, err, client.ErrUnauthorized)

	assert.Equal(t, []string{"Sign in failed: invalid credentials"}, e.notes.bad)
	assert.False(t, e.session.IsAuthenticated())
	assert.Equal(t, Failed, f.State())
	assert.Equal(t, in, f.Values(), "entered values are kept after a failure")
}

func TestSignUp_ShortPassword_FieldError(t *testing.T) {
	e := newEnv(t)
	f := NewSignUp(e.auth, e.opts)

	_, err := f.Submit(context.Background(), models.RegistrationRequest{
		Name: "Ann", Email: "ann@example.org", Password: "abc", ConfirmPassword: "abc",
	})

	var ve *forms.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := f.FieldErrors()
	require.Contains(t, fields, "password")
	assert.Equal(t, "password must be at least 7 characters", fields["password"])
	assert.Equal(t, 0, e.srv.Calls(http.MethodPost, client.PathRegister))
}

func TestSignUp_PasswordsMustMatch(t *testing.T) {
	e := newEnv(t)
	f := NewSignUp(e.auth, e.opts)

	_, err := f.Submit(context.Background(), models.RegistrationRequest{
		Name: "Ann", Email: "ann@example.org", Password: "secret77", ConfirmPassword: "secret78",
	})
	require.Error(t, err)
	assert.Equal(t, "Passwords must match", f.FieldErrors()["confirmPassword"])
	assert.Equal(t, 0, e.srv.Calls(http.MethodPost, client.PathRegister))
}

func TestSignUp_SuccessThenDuplicate(t *testing.T) {
	e := newEnv(t)
	f := NewSignUp(e.auth, e.opts)
	req := models.RegistrationRequest{Name: "Ann", Email: "ann@example.org", Password: "secret77", ConfirmPassword: "secret77"}

	_, err := f.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, e.session.IsAuthenticated(), "sign-up does not sign in")

	_, err = f.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, []string{"Signed up successfully!"}, e.notes.ok)
	assert.Equal(t, []string{"Sign up failed: user already exists"}, e.notes.bad)
}

func TestLogout_ClearsSessionRegardlessOfServer(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusInternalServerError, 0} {
		e := newEnv(t)
		e.srv.AddUser("Ann", "ann@example.org", "secret77")
		ctx := context.Background()

		_, err := NewSignIn(e.auth, e.opts).Submit(ctx, models.Credentials{Email: "ann@example.org", Password: "secret77"})
		require.NoError(t, err)

		switch status {
		case 0:
			e.srv.Close()
		case http.StatusInternalServerError:
			e.srv.Handle(http.MethodPost, client.PathLogout, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})
		}

		lf := NewLogout(e.auth, e.opts)
		_, err = lf.Submit(ctx, None{})
		require.NoError(t, err, "status %d", status)
		assert.False(t, e.session.IsAuthenticated())
		assert.Empty(t, e.session.Token())
		assert.Contains(t, e.notes.ok, "Signed out")
	}
}

type blockingAuth struct {
	services.AuthService
	calls   int
	mu      sync.Mutex
	release chan struct{}
}

func (b *blockingAuth) Login(ctx context.Context, _ models.Credentials) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return nil
}

func TestSubmit_ReentrancyGuard(t *testing.T) {
	auth := &blockingAuth{release: make(chan struct{})}
	f := NewSignIn(auth, Options{})
	in := models.Credentials{Email: "ann@example.org", Password: "secret77"}

	first := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background(), in)
		first <- err
	}()

	require.Eventually(t, func() bool { return f.State() == Submitting }, time.Second, time.Millisecond)

	_, err := f.Submit(context.Background(), in)
	require.ErrorIs(t, err, ErrSubmitInProgress)

	close(auth.release)
	require.NoError(t, <-first)
	assert.Equal(t, 1, auth.calls)
	assert.Equal(t, Succeeded, f.State())
}

func TestUpload_ResultKeptWithDisplayName(t *testing.T) {
	e := newEnv(t)
	e.srv.Result = map[string]any{
		"diseases_name":  "Tomato__Late_blight",
		"reason":         "Phytophthora infestans",
		"recommendation": "Apply fungicide",
	}
	f := NewUpload(e.diseases, e.opts)

	res, err := f.Submit(context.Background(), models.UploadRequest{Filename: "leaf.png", Image: pngBlob})
	require.NoError(t, err)
	require.Same(t, res, f.Result())
	assert.Equal(t, "Tomato  Late blight", res.DisplayName())
	assert.Equal(t, []string{"Image analyzed successfully!"}, e.notes.ok)
}

func TestUpload_EmptyOrNonImage_NoNetworkCall(t *testing.T) {
	e := newEnv(t)
	f := NewUpload(e.diseases, e.opts)

	_, err := f.Submit(context.Background(), models.UploadRequest{Filename: "leaf.png"})
	require.Error(t, err)
	_, err = f.Submit(context.Background(), models.UploadRequest{Filename: "notes.txt", Image: []byte("plain text")})
	require.Error(t, err)

	assert.Equal(t, 0, e.srv.Calls(http.MethodPost, client.PathUpload))
}

func TestUpload_WrongSchema_Notified(t *testing.T) {
	e := newEnv(t)
	e.srv.Result = map[string]any{"disease": "x", "treatment": "y", "prevention": "z"}
	f := NewUpload(e.diseases, e.opts)

	_, err := f.Submit(context.Background(), models.UploadRequest{Filename: "leaf.png", Image: pngBlob})
	var de *client.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"Failed to analyze image: unexpected server response"}, e.notes.bad)
	assert.Nil(t, f.Result())
}

func TestUpload_FailureClearsPreviousResult(t *testing.T) {
	e := newEnv(t)
	f := NewUpload(e.diseases, e.opts)

	_, err := f.Submit(context.Background(), models.UploadRequest{Filename: "leaf.png", Image: pngBlob})
	require.NoError(t, err)
	require.NotNil(t, f.Result())

	e.srv.Handle(http.MethodPost, client.PathUpload, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err = f.Submit(context.Background(), models.UploadRequest{Filename: "leaf.png", Image: pngBlob})
	require.Error(t, err)
	assert.Equal(t, Failed, f.State())
	assert.Nil(t, f.Result())
}
