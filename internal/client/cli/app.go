package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/assetgate/internal/client/client"
	"github.com/dmitrijs2005/assetgate/internal/client/config"
	"github.com/dmitrijs2005/assetgate/internal/client/gate"
	"github.com/dmitrijs2005/assetgate/internal/client/services"
	"github.com/dmitrijs2005/assetgate/internal/client/tokens"
	"github.com/dmitrijs2005/assetgate/internal/common"
	"github.com/dmitrijs2005/assetgate/internal/directory"
	"github.com/dmitrijs2005/assetgate/internal/filex"
	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/dmitrijs2005/assetgate/internal/machineid"
)

// ErrAccessDenied is returned by Run when the gate did not grant access.
var ErrAccessDenied = errors.New("access denied")

const (
	dbFileName    = "assetgate.db"
	tokenFileName = "session.json"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	gate        *gate.Gate
	session     *gate.Session
	db          *sql.DB
	reader      *bufio.Reader
	out         io.Writer
	log         logging.Logger
}

// NewApp wires storage, transport and the gate from c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log := logging.New(os.Stderr, c.LogFormat, c.LogLevel)

	store, db, err := openTokenStore(ctx, c)
	if err != nil {
		return nil, err
	}

	dc, err := client.NewDirectoryClient(ctx, client.Options{
		URL:         c.DirectoryURL,
		Timeout:     c.FetchTimeout,
		MaxBytes:    c.MaxDocumentBytes,
		S3Region:    c.S3Region,
		S3Endpoint:  c.S3Endpoint,
		S3AccessKey: c.S3AccessKey,
		S3SecretKey: c.S3SecretKey,
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	policy, _ := directory.ParseDuplicatePolicy(c.DuplicatePolicy)
	if c.AllowPlaintextPasswords {
		log.Warn(ctx, "plaintext password entries are accepted; publish hashed passwords instead")
	}

	as := services.NewAuthService(dc, store, log, services.Options{
		Policy:         policy,
		AllowPlaintext: c.AllowPlaintextPasswords,
	})

	reader := bufio.NewReader(os.Stdin)
	app := &App{
		config:      c,
		authService: as,
		db:          db,
		reader:      reader,
		out:         os.Stdout,
		log:         log,
	}
	app.gate = gate.New(as, NewTerminalPrompter(reader, os.Stdout), log, gate.Config{
		MachineID:        machineid.Resolve(c.MachineID),
		SessionTTL:       c.SessionTTL,
		MaxLoginAttempts: c.MaxLoginAttempts,
	})
	return app, nil
}

func openTokenStore(ctx context.Context, c *config.Config) (tokens.Store, *sql.DB, error) {
	resolve := func(p, name string) (string, error) {
		if p != "" {
			return p, nil
		}
		dir, err := filex.EnsureUserDataDir(common.AppName)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, name), nil
	}

	if c.TokenStore == config.TokenStoreFile {
		path, err := resolve(c.TokenFile, tokenFileName)
		if err != nil {
			return nil, nil, err
		}
		return tokens.NewFileStore(path), nil, nil
	}

	path, err := resolve(c.DBPath, dbFileName)
	if err != nil {
		return nil, nil, err
	}
	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	return tokens.NewSQLiteStore(db), db, nil
}

// Run passes the gate and, once access is granted, serves the REPL until
// the user exits or logs out.
func (a *App) Run(ctx context.Context) error {
	defer a.Close(ctx)

	if !a.enter(ctx) {
		return ErrAccessDenied
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// enter runs the gate once and reports whether a session was established.
func (a *App) enter(ctx context.Context) bool {
	res := a.gate.Run(ctx)
	fmt.Fprintln(a.out, describeResult(res))

	if !res.Granted() {
		a.session = nil
		return false
	}
	a.session = res.Session
	return true
}

func (a *App) Close(ctx context.Context) {
	if a.authService != nil {
		_ = a.authService.Close(ctx)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.session == nil {
		return "(locked)"
	}
	return fmt.Sprintf("(%s)", a.session.User.Username)
}

func describeResult(res gate.Result) string {
	switch res.Outcome {
	case gate.OutcomeGranted:
		if res.Session.FromCache {
			return fmt.Sprintf("Welcome back, %s.", res.Session.User.Username)
		}
		return fmt.Sprintf("Welcome, %s.", res.Session.User.Username)
	case gate.OutcomeNetworkRequired:
		return fmt.Sprintf("Network required: the user list could not be loaded (%v).", res.Err)
	case gate.OutcomeTooManyAttempts:
		return "Too many failed login attempts."
	case gate.OutcomeNotAllowed:
		return "Access denied: " + directory.Reason(res.Err)
	default:
		if res.Err != nil {
			return fmt.Sprintf("Login cancelled: %v", res.Err)
		}
		return "Login cancelled."
	}
}
