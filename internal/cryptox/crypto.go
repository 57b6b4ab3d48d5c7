// Package cryptox verifies directory passwords.
//
// A directory entry's password field may hold a bcrypt hash ("$2a$", "$2b$",
// "$2y$"), an argon2id string ("$argon2id$v=19$m=...,t=...,p=...$salt$key"),
// or, for legacy lists, the plaintext itself. Plaintext is only accepted
// when the caller explicitly allows it.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMismatch          = errors.New("password mismatch")
	ErrPlaintextRejected = errors.New("plaintext password entries are disabled")
	ErrUnsupportedHash   = errors.New("unsupported password hash")
)

type Scheme string

const (
	SchemeBcrypt    Scheme = "bcrypt"
	SchemeArgon2id  Scheme = "argon2id"
	SchemePlaintext Scheme = "plaintext"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// DetectScheme classifies a stored password value.
func DetectScheme(stored string) Scheme {
	switch {
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		return SchemeBcrypt
	case strings.HasPrefix(stored, "$argon2id$"):
		return SchemeArgon2id
	default:
		return SchemePlaintext
	}
}

// DeriveMasterKey runs argon2id with the default parameters.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashPassword returns a bcrypt hash of password at the given cost;
// cost <= 0 means bcrypt.DefaultCost.
func HashPassword(password []byte, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// HashPasswordArgon2 encodes password as an argon2id string with the
// default parameters.
func HashPasswordArgon2(password, salt []byte) string {
	key := DeriveMasterKey(password, salt)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
}

// VerifyPassword checks candidate against a stored directory value.
// It returns nil on match, ErrMismatch on a wrong password, and
// ErrPlaintextRejected / ErrUnsupportedHash when the stored value can't be
// used.
func VerifyPassword(stored string, candidate []byte, allowPlaintext bool) error {
	switch DetectScheme(stored) {
	case SchemeBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(stored), candidate)
		if err == nil {
			return nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("%w: %v", ErrUnsupportedHash, err)

	case SchemeArgon2id:
		return verifyArgon2(stored, candidate)

	default:
		if !allowPlaintext {
			return ErrPlaintextRejected
		}
		if stored == "" {
			return ErrMismatch
		}
		if subtle.ConstantTimeCompare([]byte(stored), candidate) == 0 {
			return ErrMismatch
		}
		return nil
	}
}

func verifyArgon2(stored string, candidate []byte) error {
	// "", "argon2id", "v=19", "m=65536,t=1,p=4", salt, key
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return ErrUnsupportedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ErrUnsupportedHash
	}

	var memory uint32
	var time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return ErrUnsupportedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrUnsupportedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return ErrUnsupportedHash
	}

	got := argon2.IDKey(candidate, salt, time, memory, threads, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, got) == 0 {
		return ErrMismatch
	}
	return nil
}
