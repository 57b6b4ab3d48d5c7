// Package models holds the server's persistent types.
package models

import "time"

// DirectoryUser is one row of the published user directory. PasswordHash
// is what clients receive in the "password" field.
type DirectoryUser struct {
	Username     string
	PasswordHash string
	Active       bool
	Expires      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
