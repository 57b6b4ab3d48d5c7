package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the signed form of a LocalAuthToken.
type Claims struct {
	jwt.RegisteredClaims
	MachineID string `json:"mid"`
}

// Encode signs t with key using HS256.
func Encode(t LocalAuthToken, key []byte, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   t.Username,
			ExpiresAt: jwt.NewNumericDate(t.ExpiresUTC),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		MachineID: t.MachineID,
	})

	s, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Decode verifies the signature and returns the token. Expiry is left to
// the caller, which compares at day granularity.
func Decode(s string, key []byte) (LocalAuthToken, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(s, claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return LocalAuthToken{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return LocalAuthToken{}, ErrInvalidToken
	}

	return LocalAuthToken{
		Username:   claims.Subject,
		MachineID:  claims.MachineID,
		ExpiresUTC: claims.ExpiresAt.Time.UTC(),
	}, nil
}
