package httpapi

import (
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/dmitrijs2005/assetgate/internal/server/auth"
)

const adminContextKey = "admin"

// AdminJWT rejects requests without a valid admin bearer token and stores
// the token's claims in the echo context.
func AdminJWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		ContextKey:    adminContextKey,
		TokenLookup:   "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return auth.ParseToken(token, secret)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin token")
		},
	})
}

// actor returns the subject of the authenticated admin token.
func actor(c echo.Context) string {
	if claims, ok := c.Get(adminContextKey).(*auth.Claims); ok {
		return claims.Subject
	}
	return ""
}

// RequestLogger logs one line per request with status and duration.
func RequestLogger(l logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status

			args := []any{
				"method", req.Method,
				"path", c.Path(),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
			}
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				args = append(args, "request_id", rid)
			}

			switch {
			case status >= 500:
				l.Error(ctx, "request completed", append(args, "error", errString(err))...)
			case status >= 400:
				l.Warn(ctx, "request completed", args...)
			default:
				l.Info(ctx, "request completed", args...)
			}
			return nil
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
