package server

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/assetgate/internal/server/auth"
	"github.com/dmitrijs2005/assetgate/internal/server/config"
)

// DefaultAdminSubject names tokens issued without an explicit subject.
const DefaultAdminSubject = "admin"

// PrintAdminToken writes a signed admin bearer token for subject to w.
func PrintAdminToken(w io.Writer, c *config.Config, subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = DefaultAdminSubject
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required")
	}
	if c.SecretKey == config.DefaultSecretKey {
		return config.ErrDefaultSecretKey
	}

	tok, err := auth.GenerateToken(subject, []byte(c.SecretKey), c.AdminTokenValidity)
	if err != nil {
		return fmt.Errorf("sign admin token: %w", err)
	}

	_, err = fmt.Fprintln(w, tok)
	return err
}
