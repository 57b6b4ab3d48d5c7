package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/netx"
)

// HTTPClient downloads the directory with a plain GET.
type HTTPClient struct {
	url      string
	maxBytes int64
	http     *http.Client
}

func NewHTTPClient(url string, timeout time.Duration, maxBytes int64) *HTTPClient {
	return &HTTPClient{
		url:      url,
		maxBytes: maxBytes,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) FetchDirectory(ctx context.Context) ([]byte, error) {
	body, err := netx.GetBytes(ctx, c.http, c.url, c.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return body, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
