package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `[{"username":"alice","password":"pw1","active":true,"expires":"2099-01-01"}]`

func TestHTTPClient_FetchDirectory(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, doc)
	}))
	defer srv.Close()

	c, err := NewDirectoryClient(context.Background(), Options{URL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	defer c.Close()

	require.IsType(t, &HTTPClient{}, c)

	got, err := c.FetchDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestHTTPClient_NonOKIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, DefaultMaxBytes)
	_, err := c.FetchDirectory(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second, DefaultMaxBytes)
	_, err := c.FetchDirectory(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFileClient(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := NewDirectoryClient(context.Background(), Options{URL: "file://" + path})
	require.NoError(t, err)
	require.IsType(t, &FileClient{}, c)

	got, err := c.FetchDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))

	missing := NewFileClient(filepath.Join(dir, "nope.json"), DefaultMaxBytes)
	_, err = missing.FetchDirectory(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFileClient_TooLarge(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 64), 0o600))

	c := NewFileClient(path, 16)
	_, err := c.FetchDirectory(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestFileClient_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileClient("whatever", 0).FetchDirectory(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewDirectoryClient_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewDirectoryClient(context.Background(), Options{URL: "ftp://example.com/users.json"})
	require.ErrorIs(t, err, ErrUnsupportedScheme)

	_, err = NewDirectoryClient(context.Background(), Options{URL: "s3://bucket-only"})
	require.Error(t, err)

	_, err = NewDirectoryClient(context.Background(), Options{URL: "::bad"})
	require.Error(t, err)
}

func TestNewDirectoryClient_S3(t *testing.T) {
	t.Parallel()

	c, err := NewDirectoryClient(context.Background(), Options{
		URL:         "s3://assets/gate/users.json",
		S3Region:    "eu-central-1",
		S3Endpoint:  "http://127.0.0.1:9000",
		S3AccessKey: "minio",
		S3SecretKey: "minio123",
	})
	require.NoError(t, err)

	s3c, ok := c.(*S3Client)
	require.True(t, ok)
	assert.Equal(t, "assets", s3c.bucket)
	assert.Equal(t, "gate/users.json", s3c.key)
	assert.Equal(t, int64(DefaultMaxBytes), s3c.maxBytes)
}

type fakeGetter struct {
	body   string
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Client_FetchDirectory(t *testing.T) {
	t.Parallel()

	fg := &fakeGetter{body: doc}
	c := &S3Client{s3: fg, bucket: "assets", key: "users.json", maxBytes: DefaultMaxBytes}

	got, err := c.FetchDirectory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
	assert.Equal(t, "assets", fg.bucket)
	assert.Equal(t, "users.json", fg.key)
	require.NoError(t, c.Close())
}

func TestS3Client_ErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	boom := errors.New("no such key")
	c := &S3Client{s3: &fakeGetter{err: boom}, bucket: "assets", key: "users.json"}

	_, err := c.FetchDirectory(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, boom)
}
