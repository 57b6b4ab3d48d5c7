package httpapi

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/assetgate/internal/logging"
)

func TestServe_StopsOnContextCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewHTTPServer(ln.Addr().String(), logging.NewDiscard(), &fakeDirectory{}, secret, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health/live")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := NewHTTPServer(ln.Addr().String(), logging.NewDiscard(), &fakeDirectory{}, secret, time.Second)
	assert.Error(t, s.Run(context.Background()))
}

func TestServe_AcceptErrorReleasesShutdownGoroutine(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	var logs bytes.Buffer
	s := NewHTTPServer(ln.Addr().String(), logging.New(&logs, "json", "info"), &fakeDirectory{}, secret, time.Second)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(context.Background(), ln) }()

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after accept failure")
	}

	// the shutdown goroutine logs before Serve is allowed to return
	assert.Contains(t, logs.String(), "Stopping HTTP server")
}
