package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/cryptox"
)

// Directory is an immutable, username-keyed view of a fetched list.
type Directory struct {
	users      map[string]UserRecord
	order      []string
	duplicates []string
}

// Parse decodes a directory document. Entries with an empty username are
// malformed. Duplicate usernames are handled per policy.
func Parse(data []byte, policy DuplicatePolicy) (*Directory, error) {
	var records []UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return New(records, policy)
}

// New builds a Directory from already decoded records.
func New(records []UserRecord, policy DuplicatePolicy) (*Directory, error) {
	if policy == "" {
		policy = LastWins
	}

	d := &Directory{users: make(map[string]UserRecord, len(records))}

	for i, r := range records {
		name := strings.TrimSpace(r.Username)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has no username", ErrMalformed, i)
		}
		r.Username = name

		if _, seen := d.users[name]; seen {
			d.duplicates = append(d.duplicates, name)
			switch policy {
			case Reject:
				return nil, fmt.Errorf("%w: %q", ErrDuplicateUser, name)
			case FirstWins:
				continue
			}
			d.users[name] = r
			continue
		}

		d.users[name] = r
		d.order = append(d.order, name)
	}

	return d, nil
}

func (d *Directory) Len() int {
	return len(d.users)
}

// Duplicates lists usernames that appeared more than once, in the order the
// repeats were seen.
func (d *Directory) Duplicates() []string {
	return append([]string(nil), d.duplicates...)
}

// Lookup finds a record by exact username.
func (d *Directory) Lookup(username string) (UserRecord, bool) {
	r, ok := d.users[username]
	return r, ok
}

// Users returns the records in first-seen order.
func (d *Directory) Users() []UserRecord {
	out := make([]UserRecord, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.users[name])
	}
	return out
}

// CheckAllowed re-validates an already authenticated username against the
// list, without a password. Used for cached sessions.
func (d *Directory) CheckAllowed(username string, now time.Time) (UserRecord, error) {
	r, ok := d.Lookup(username)
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	if !r.Active {
		return r, ErrUserInactive
	}
	if r.Expired(now) {
		return r, ErrUserExpired
	}
	return r, nil
}

// Validate checks username/password against the list. A matched record is
// returned only when the password matches and the user is active and
// unexpired. allowPlaintext accepts legacy entries whose password is not a
// hash.
func (d *Directory) Validate(username string, password []byte, now time.Time, allowPlaintext bool) (UserRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return UserRecord{}, ErrEmptyUsername
	}

	r, ok := d.Lookup(username)
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}

	if err := cryptox.VerifyPassword(r.Password, password, allowPlaintext); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return UserRecord{}, ErrInvalidPassword
		}
		return UserRecord{}, fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	if !r.Active {
		return UserRecord{}, ErrUserInactive
	}
	if r.Expired(now) {
		return UserRecord{}, ErrUserExpired
	}
	return r, nil
}

// Marshal encodes records as a directory document, sorted by username.
func Marshal(records []UserRecord) ([]byte, error) {
	sorted := append([]UserRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Username < sorted[j].Username })
	if sorted == nil {
		sorted = []UserRecord{}
	}
	return json.MarshalIndent(sorted, "", "  ")
}
