package client

import "errors"

var (
	// ErrUnavailable means the directory could not be retrieved: no network,
	// timeout, missing object or a non-200 response.
	ErrUnavailable       = errors.New("directory unavailable")
	ErrUnsupportedScheme = errors.New("unsupported directory url scheme")
)
