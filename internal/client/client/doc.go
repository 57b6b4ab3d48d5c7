// Package client contains the client-side plumbing of assetgate.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for fetching
//     the published user directory document.
//  2. Concrete transports selected by the directory URL scheme: HTTPClient
//     for http/https, S3Client for s3://bucket/key (AWS or an S3-compatible
//     endpoint) and FileClient for file:// mirrors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every transport failure wraps ErrUnavailable so that callers can tell a
// missing network apart from a malformed document with errors.Is.
//
// See Also
//
//   - Interface:  Client
//   - Factory:    NewDirectoryClient
//   - DB helpers: InitDatabase, RunMigrations
package client
