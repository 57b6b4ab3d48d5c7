// Package httpapi exposes the directory over HTTP: the public document
// clients fetch and the admin API that edits it.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/dmitrijs2005/assetgate/internal/server/models"
	"github.com/dmitrijs2005/assetgate/internal/server/services"
)

// Directory is the service the handlers call.
type Directory interface {
	List(ctx context.Context) ([]models.DirectoryUser, error)
	Get(ctx context.Context, username string) (*models.DirectoryUser, error)
	Create(ctx context.Context, actor string, in services.UserInput) (*models.DirectoryUser, error)
	Update(ctx context.Context, actor string, in services.UserInput) (*models.DirectoryUser, error)
	Delete(ctx context.Context, actor string, username string) error
	Document(ctx context.Context) ([]byte, int, error)
	Publish(ctx context.Context, actor string) (*services.PublishResult, error)
}

type HTTPServer struct {
	address         string
	logger          logging.Logger
	shutdownTimeout time.Duration
	e               *echo.Echo
}

func NewHTTPServer(address string, l logging.Logger, dir Directory, secretKey string, shutdownTimeout time.Duration) *HTTPServer {
	l = l.With("module", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(l))

	h := &handler{dir: dir, logger: l}
	register(e, h, []byte(secretKey))

	return &HTTPServer{address: address, logger: l, shutdownTimeout: shutdownTimeout, e: e}
}

// register mounts all routes on e.
func register(e *echo.Echo, h *handler, secret []byte) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/users.json", h.document)

	admin := e.Group("/admin", AdminJWT(secret))
	admin.GET("/users", h.listUsers)
	admin.POST("/users", h.createUser)
	admin.GET("/users/:username", h.getUser)
	admin.PATCH("/users/:username", h.updateUser)
	admin.DELETE("/users/:username", h.deleteUser)
	admin.POST("/publish", h.publish)
}

// Handler returns the routed echo instance.
func (s *HTTPServer) Handler() http.Handler { return s.e }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener. It returns only after the shutdown
// goroutine has exited.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	srv := &http.Server{
		Handler:           s.e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		<-done
		return err
	}

	<-done
	return nil
}
