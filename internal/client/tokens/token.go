// Package tokens persists the per-machine session token that lets a user
// skip the login prompt until it expires.
package tokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/common"
)

// ErrInvalidToken is returned by Load when a stored token exists but cannot
// be decoded or fails verification. Callers discard it and re-authenticate.
var ErrInvalidToken = common.ErrInvalidToken

// LocalAuthToken records who logged in on which machine and until when.
// A token is replaced, never edited.
type LocalAuthToken struct {
	Username   string    `json:"username"`
	MachineID  string    `json:"machine_id"`
	ExpiresUTC time.Time `json:"expires_utc"`
}

// Expired reports whether now has reached ExpiresUTC. The user's own expiry
// day is already folded into ExpiresUTC when the token is issued.
func (t LocalAuthToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresUTC)
}

// Store keeps at most one token. Load returns (nil, nil) when none is saved.
type Store interface {
	Save(ctx context.Context, t LocalAuthToken) error
	Load(ctx context.Context) (*LocalAuthToken, error)
	Delete(ctx context.Context) error
}
