package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Client fetches the raw user directory document from wherever it is
// published.
type Client interface {
	FetchDirectory(ctx context.Context) ([]byte, error)
	Close() error
}

// Options select and tune the transport. The URL scheme decides the
// implementation: http/https, s3 or file.
type Options struct {
	URL      string
	Timeout  time.Duration
	MaxBytes int64

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// DefaultMaxBytes caps a directory document at 4 MiB.
const DefaultMaxBytes = 4 << 20

// NewDirectoryClient returns the Client matching opts.URL.
func NewDirectoryClient(ctx context.Context, opts Options) (Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.URL))
	if err != nil {
		return nil, fmt.Errorf("directory url: %w", err)
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPClient(u.String(), opts.Timeout, opts.MaxBytes), nil
	case "s3":
		return NewS3Client(ctx, u, opts)
	case "file":
		return NewFileClient(filePath(u), opts.MaxBytes), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// filePath handles both file:///abs/path and file://relative/path.
func filePath(u *url.URL) string {
	if u.Host != "" {
		return u.Host + u.Path
	}
	return u.Path
}
