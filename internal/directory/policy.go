package directory

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what happens when the same username appears more
// than once in a fetched list.
type DuplicatePolicy string

const (
	// LastWins keeps the last occurrence.
	LastWins DuplicatePolicy = "last-wins"
	// FirstWins keeps the first occurrence.
	FirstWins DuplicatePolicy = "first-wins"
	// Reject fails the whole parse.
	Reject DuplicatePolicy = "reject"
)

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return LastWins, nil
	case LastWins, FirstWins, Reject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want %s, %s or %s)", s, LastWins, FirstWins, Reject)
	}
}
