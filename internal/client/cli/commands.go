package cli

import (
	"context"
	"fmt"
	"time"
)

// Whoami prints the signed-in user.
func (a *App) Whoami(ctx context.Context) error {
	s := a.session
	fmt.Fprintf(a.out, "%s (account valid through %s)\n", s.User.Username, s.User.Expires)
	return nil
}

// Status prints where the session came from and when it ends.
func (a *App) Status(ctx context.Context) error {
	s := a.session
	source := "interactive login"
	if s.FromCache {
		source = "cached token"
	}
	fmt.Fprintf(a.out, "user:       %s\n", s.User.Username)
	fmt.Fprintf(a.out, "machine:    %s\n", s.MachineID)
	fmt.Fprintf(a.out, "session:    %s\n", source)
	fmt.Fprintf(a.out, "expires:    %s\n", s.Token.ExpiresUTC.Format(time.RFC3339))
	fmt.Fprintf(a.out, "directory:  %d users\n", s.Directory.Len())
	return nil
}

// Refresh runs the whole gate again. A failure ends the session.
func (a *App) Refresh(ctx context.Context) error {
	if !a.enter(ctx) {
		return ErrAccessDenied
	}
	return nil
}

// Logout deletes the cached token and ends the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.ClearSession(ctx); err != nil {
		a.log.Error(ctx, "logout failed", "error", err)
		fmt.Fprintln(a.out, "Logout failed:", err)
		return err
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
