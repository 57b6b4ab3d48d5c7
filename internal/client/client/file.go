package client

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileClient reads the directory from a local path, for mirrored or
// development setups.
type FileClient struct {
	path     string
	maxBytes int64
}

func NewFileClient(path string, maxBytes int64) *FileClient {
	return &FileClient{path: path, maxBytes: maxBytes}
}

func (c *FileClient) FetchDirectory(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()

	return readLimited(f, c.maxBytes)
}

func (c *FileClient) Close() error { return nil }

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: document larger than %d bytes", ErrUnavailable, limit)
	}
	return b, nil
}
