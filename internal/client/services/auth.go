// Package services contains application services for the assetgate client.
// This file defines the authentication service: directory download,
// credential validation against it, and housekeeping of the cached session
// token.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/client/client"
	"github.com/dmitrijs2005/assetgate/internal/client/tokens"
	"github.com/dmitrijs2005/assetgate/internal/cryptox"
	"github.com/dmitrijs2005/assetgate/internal/directory"
	"github.com/dmitrijs2005/assetgate/internal/logging"
)

// AuthService defines authentication operations for the gate and the CLI.
//
// Contract:
//   - LoadDirectory: fetch and parse the remote user list. Transport
//     failures wrap client.ErrUnavailable, bad documents wrap
//     directory.ErrMalformed.
//   - Validate: check credentials against a loaded directory.
//   - SaveSession / LoadSession / ClearSession: the cached token.
//   - Close: release underlying client resources.
type AuthService interface {
	LoadDirectory(ctx context.Context) (*directory.Directory, error)
	Validate(ctx context.Context, dir *directory.Directory, username string, password []byte) (directory.UserRecord, error)
	SaveSession(ctx context.Context, t tokens.LocalAuthToken) error
	LoadSession(ctx context.Context) (*tokens.LocalAuthToken, error)
	ClearSession(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options tune how the directory is interpreted.
type Options struct {
	Policy         directory.DuplicatePolicy
	AllowPlaintext bool
}

// authService is the concrete AuthService backed by a directory Client
// and a token Store.
type authService struct {
	client client.Client
	store  tokens.Store
	log    logging.Logger
	opts   Options
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given transport and store.
func NewAuthService(c client.Client, store tokens.Store, log logging.Logger, opts Options) AuthService {
	if opts.Policy == "" {
		opts.Policy = directory.LastWins
	}
	return &authService{
		client: c,
		store:  store,
		log:    log.With("module", "auth"),
		opts:   opts,
		now:    time.Now,
	}
}

func (a *authService) LoadDirectory(ctx context.Context) (*directory.Directory, error) {
	data, err := a.client.FetchDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}

	dir, err := directory.Parse(data, a.opts.Policy)
	if err != nil {
		return nil, fmt.Errorf("parse directory: %w", err)
	}

	a.log.Info(ctx, "directory loaded", "users", dir.Len())
	if dups := dir.Duplicates(); len(dups) > 0 {
		a.log.Warn(ctx, "duplicate usernames in directory", "policy", a.opts.Policy, "usernames", dups)
	}
	return dir, nil
}

// Validate checks the credentials at the current time.
func (a *authService) Validate(ctx context.Context, dir *directory.Directory, username string, password []byte) (directory.UserRecord, error) {
	rec, err := dir.Validate(username, password, a.now(), a.opts.AllowPlaintext)
	if err != nil {
		a.log.Info(ctx, "login rejected", "username", username, "error", err)
		return directory.UserRecord{}, err
	}

	if cryptox.DetectScheme(rec.Password) == cryptox.SchemePlaintext {
		a.log.Warn(ctx, "user authenticated with a plaintext password entry", "username", rec.Username)
	}
	return rec, nil
}

func (a *authService) SaveSession(ctx context.Context, t tokens.LocalAuthToken) error {
	if err := a.store.Save(ctx, t); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns (nil, nil) when no token is cached. A token that
// cannot be read back is reported with tokens.ErrInvalidToken.
func (a *authService) LoadSession(ctx context.Context) (*tokens.LocalAuthToken, error) {
	return a.store.Load(ctx)
}

// ClearSession deletes the cached token (e.g., on logout).
func (a *authService) ClearSession(ctx context.Context) error {
	if err := a.store.Delete(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
