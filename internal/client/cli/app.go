package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/plantdetector/internal/buildinfo"
	"github.com/dmitrijs2005/plantdetector/internal/client/client"
	"github.com/dmitrijs2005/plantdetector/internal/client/config"
	"github.com/dmitrijs2005/plantdetector/internal/client/flows"
	"github.com/dmitrijs2005/plantdetector/internal/client/services"
	"github.com/dmitrijs2005/plantdetector/internal/client/session"
	"github.com/dmitrijs2005/plantdetector/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// maxPingTimeout bounds one liveness probe of the watcher.
const maxPingTimeout = 3 * time.Second

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	session  *session.Session
	api      *client.HTTPClient
	baseURL  *url.URL
	auth     services.AuthService
	diseases services.DiseaseService

	signIn *flows.SignInFlow
	signUp *flows.SignUpFlow
	logout *flows.LogoutFlow
	upload *flows.UploadFlow

	reader   *bufio.Reader
	out      io.Writer
	notifier *termNotifier

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the local database, restores the session and builds the API
// client with the session's token attached to every request.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	return newApp(ctx, c, log, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	s, err := session.Load(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, log,
		client.BearerToken(s),
		client.RequestID(),
		client.UserAgent("plantdetector-cli/"+buildinfo.Version()),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	auth := services.NewAuthService(api, s, log)
	diseases := services.NewDiseaseService(api)
	notifier := newTermNotifier(out)
	opts := flows.Options{Notifier: notifier, Logger: log}

	return &App{
		config:   c,
		log:      log,
		db:       db,
		session:  s,
		api:      api,
		baseURL:  api.BaseURL(),
		auth:     auth,
		diseases: diseases,
		signIn:   flows.NewSignIn(auth, opts),
		signUp:   flows.NewSignUp(auth, opts),
		logout:   flows.NewLogout(auth, opts),
		upload:   flows.NewUpload(diseases, opts),
		reader:   bufio.NewReader(in),
		out:      out,
		notifier: notifier,
	}, nil
}

// Run starts the online watcher and the REPL and blocks until the user
// leaves or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to Plant Disease Detector CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close(ctx context.Context) {
	if err := a.auth.Close(ctx); err != nil {
		a.log.Warn(ctx, "close api client", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "close database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

// checkOnline runs one liveness probe and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	timeout := min(maxPingTimeout, a.config.RequestTimeout)
	pctx, cancel := context.WithTimeout(ctx, timeout)
	err := a.auth.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.log.Debug(ctx, "ping failed", "error", err)
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher probes the API right away and then every
// interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// getStatus renders the prompt status, e.g. "(ann@example.org online)".
func (a *App) getStatus() string {
	s := ""
	if a.isLoggedIn() {
		who := a.session.Subject()
		if who == "" {
			who = "signed in"
		}
		s = who + " "
	}
	s = strings.TrimSpace(s + string(a.Mode()))
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}
