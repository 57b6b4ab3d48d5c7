// Package directory models the remote list of users permitted to run the
// tool and validates credentials against it.
//
// The wire document is a JSON array:
//
//	[{"username": "alice", "password": "...", "active": true, "expires": "2099-01-01"}]
//
// Field names are matched case-insensitively, so lists exported with
// PascalCase keys load unchanged.
package directory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/timex"
)

// dateLayouts are tried in order when decoding Date values.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Date is a calendar date carried as "2006-01-02" on the wire.
// Timestamps are accepted on input and reduced to their UTC day.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: timex.Day(t)}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UserRecord is one entry of the directory. Password holds either a hash
// (bcrypt, argon2id) or a legacy plaintext value.
type UserRecord struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Active   bool   `json:"active"`
	Expires  Date   `json:"expires"`
}

// Expired reports whether the record's expiry day is before today.
func (u UserRecord) Expired(now time.Time) bool {
	return !timex.NotBefore(u.Expires.Time, now)
}

// Allowed reports whether the record may currently use the tool.
func (u UserRecord) Allowed(now time.Time) bool {
	return u.Active && !u.Expired(now)
}

// Redacted returns a copy with the password removed, for logs and output.
func (u UserRecord) Redacted() UserRecord {
	u.Password = ""
	return u
}
