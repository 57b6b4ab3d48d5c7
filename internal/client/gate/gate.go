// Package gate decides whether the tool may be used on this machine. Each
// Run fetches the user directory, tries the cached session token and falls
// back to an interactive login.
package gate

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/client/services"
	"github.com/dmitrijs2005/assetgate/internal/client/tokens"
	"github.com/dmitrijs2005/assetgate/internal/common"
	"github.com/dmitrijs2005/assetgate/internal/directory"
	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/dmitrijs2005/assetgate/internal/timex"
)

var (
	ErrMachineMismatch = errors.New("token was issued for another machine")
	ErrTokenExpired    = common.ErrTokenExpired
)

// Credentials entered at the login prompt.
type Credentials struct {
	Username string
	Password []byte
}

// Prompter collects credentials. reason is empty on the first attempt and
// holds the previous failure afterwards. ok=false means the user cancelled.
type Prompter interface {
	Prompt(ctx context.Context, reason string) (creds Credentials, ok bool, err error)
}

// Session is the authenticated context handed to the caller on Granted.
type Session struct {
	User      directory.UserRecord
	Directory *directory.Directory
	MachineID string
	Token     tokens.LocalAuthToken
	FromCache bool
}

// Result of a Run. Session is set only when Outcome is OutcomeGranted.
type Result struct {
	Outcome Outcome
	State   State
	Session *Session
	Trace   []State
	Err     error
}

func (r Result) Granted() bool {
	return r.Outcome == OutcomeGranted
}

// Config holds the gate's policy knobs.
type Config struct {
	MachineID        string
	SessionTTL       time.Duration
	MaxLoginAttempts int
}

type Gate struct {
	auth     services.AuthService
	prompter Prompter
	log      logging.Logger
	cfg      Config
	now      func() time.Time
}

func New(auth services.AuthService, prompter Prompter, log logging.Logger, cfg Config) *Gate {
	return &Gate{
		auth:     auth,
		prompter: prompter,
		log:      log.With("module", "gate"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// run carries the state of a single Run.
type run struct {
	g     *Gate
	ctx   context.Context
	state State
	trace []State
}

func (r *run) to(next State, args ...any) {
	r.g.log.Debug(r.ctx, "gate transition", append([]any{"from", r.state, "to", next}, args...)...)
	r.state = next
	r.trace = append(r.trace, next)
}

func (r *run) finish(outcome Outcome, s *Session, err error) Result {
	final := Denied
	if outcome == OutcomeGranted {
		final = Granted
	}
	r.to(final, "outcome", outcome)
	return Result{Outcome: outcome, State: final, Session: s, Trace: r.trace, Err: err}
}

// Run executes the gate from NoSession to a terminal state. Nothing is
// carried over from earlier runs.
func (g *Gate) Run(ctx context.Context) Result {
	r := &run{g: g, ctx: ctx, state: NoSession, trace: []State{NoSession}}

	r.to(CheckingCache)

	dir, err := g.auth.LoadDirectory(ctx)
	if err != nil {
		g.log.Warn(ctx, "user directory unavailable", "error", err)
		return r.finish(OutcomeNetworkRequired, nil, err)
	}

	if s, ok := g.checkCache(r, dir); ok {
		return r.finish(OutcomeGranted, s, nil)
	}

	return g.login(r, dir)
}

// checkCache honors a cached token only if it was issued for this machine,
// has not expired, and its user is still allowed by dir. Anything else
// deletes the token.
func (g *Gate) checkCache(r *run, dir *directory.Directory) (*Session, bool) {
	ctx := r.ctx
	now := g.now()

	tok, err := g.auth.LoadSession(ctx)
	switch {
	case err != nil:
		g.log.Debug(ctx, "cached token unreadable", "error", err)
		g.discard(r, err)
		return nil, false
	case tok == nil:
		r.to(Invalid, "reason", "no cached token")
		return nil, false
	}

	var user directory.UserRecord
	switch {
	case tok.MachineID != g.cfg.MachineID:
		err = ErrMachineMismatch
	case tok.Expired(now):
		err = ErrTokenExpired
	default:
		user, err = dir.CheckAllowed(tok.Username, now)
	}
	if err != nil {
		g.discard(r, err)
		return nil, false
	}

	r.to(Valid, "username", user.Username)
	return &Session{
		User:      user,
		Directory: dir,
		MachineID: g.cfg.MachineID,
		Token:     *tok,
		FromCache: true,
	}, true
}

func (g *Gate) discard(r *run, reason error) {
	r.to(Invalid, "reason", reason)
	if err := g.auth.ClearSession(r.ctx); err != nil {
		g.log.Warn(r.ctx, "failed to delete stale token", "error", err)
	}
}

func (g *Gate) login(r *run, dir *directory.Directory) Result {
	ctx := r.ctx
	r.to(PromptLogin)

	reason := ""
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			r.to(LoginCancelled)
			return r.finish(OutcomeCancelled, nil, err)
		}

		creds, ok, err := g.prompter.Prompt(ctx, reason)
		if err != nil || !ok {
			common.WipeByteArray(creds.Password)
			r.to(LoginCancelled)
			return r.finish(OutcomeCancelled, nil, err)
		}

		user, err := g.auth.Validate(ctx, dir, creds.Username, creds.Password)
		common.WipeByteArray(creds.Password)
		if err != nil {
			failures++
			if g.cfg.MaxLoginAttempts > 0 && failures >= g.cfg.MaxLoginAttempts {
				return r.finish(OutcomeTooManyAttempts, nil, err)
			}
			reason = directory.Reason(err)
			continue
		}

		r.to(LoginSucceeded, "username", user.Username)
		return g.grant(r, dir, user)
	}
}

func (g *Gate) grant(r *run, dir *directory.Directory, user directory.UserRecord) Result {
	ctx := r.ctx
	now := g.now()

	if _, err := dir.CheckAllowed(user.Username, now); err != nil {
		return r.finish(OutcomeNotAllowed, nil, err)
	}

	tok := tokens.LocalAuthToken{
		Username:   user.Username,
		MachineID:  g.cfg.MachineID,
		ExpiresUTC: g.tokenExpiry(user, now),
	}
	if err := g.auth.SaveSession(ctx, tok); err != nil {
		g.log.Error(ctx, "failed to save session token", "error", err)
	}

	return r.finish(OutcomeGranted, &Session{
		User:      user,
		Directory: dir,
		MachineID: g.cfg.MachineID,
		Token:     tok,
	}, nil)
}

// tokenExpiry is the earlier of the end of the user's last valid day and
// now+SessionTTL.
func (g *Gate) tokenExpiry(user directory.UserRecord, now time.Time) time.Time {
	exp := timex.EndOfDay(user.Expires.Time)
	if g.cfg.SessionTTL > 0 {
		if ttl := now.Add(g.cfg.SessionTTL).UTC(); ttl.Before(exp) {
			exp = ttl
		}
	}
	return exp.Truncate(time.Second)
}
