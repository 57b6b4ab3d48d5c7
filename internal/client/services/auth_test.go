package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/client/client"
	"github.com/dmitrijs2005/assetgate/internal/client/tokens"
	"github.com/dmitrijs2005/assetgate/internal/cryptox"
	"github.com/dmitrijs2005/assetgate/internal/directory"
	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeClient struct {
	Doc      []byte
	FetchErr error
	CloseErr error

	FetchCalls int
	Closed     bool
}

func (f *fakeClient) FetchDirectory(ctx context.Context) ([]byte, error) {
	f.FetchCalls++
	return f.Doc, f.FetchErr
}

func (f *fakeClient) Close() error {
	f.Closed = true
	return f.CloseErr
}

type fakeStore struct {
	tok     *tokens.LocalAuthToken
	SaveErr error
	LoadErr error
	DelErr  error
}

func (s *fakeStore) Save(ctx context.Context, t tokens.LocalAuthToken) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.tok = &t
	return nil
}

func (s *fakeStore) Load(ctx context.Context) (*tokens.LocalAuthToken, error) {
	return s.tok, s.LoadErr
}

func (s *fakeStore) Delete(ctx context.Context) error {
	if s.DelErr != nil {
		return s.DelErr
	}
	s.tok = nil
	return nil
}

// ---- helpers ----

const aliceDoc = `[{"username":"alice","password":"pw1","active":true,"expires":"2099-01-01"}]`

func newSvc(t *testing.T, fc *fakeClient, st tokens.Store, opts Options) *authService {
	t.Helper()
	s := NewAuthService(fc, st, logging.NewDiscard(), opts).(*authService)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

// ---- tests ----

func TestLoadDirectory_OK(t *testing.T) {
	fc := &fakeClient{Doc: []byte(aliceDoc)}
	s := newSvc(t, fc, &fakeStore{}, Options{})

	dir, err := s.LoadDirectory(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, dir.Len())
	require.Equal(t, 1, fc.FetchCalls)
	require.Equal(t, directory.LastWins, s.opts.Policy)
}

func TestLoadDirectory_FetchError(t *testing.T) {
	fc := &fakeClient{FetchErr: client.ErrUnavailable}
	s := newSvc(t, fc, &fakeStore{}, Options{})

	_, err := s.LoadDirectory(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
}

func TestLoadDirectory_Malformed(t *testing.T) {
	fc := &fakeClient{Doc: []byte(`{"not":"an array"}`)}
	s := newSvc(t, fc, &fakeStore{}, Options{})

	_, err := s.LoadDirectory(context.Background())
	require.ErrorIs(t, err, directory.ErrMalformed)
}

func TestLoadDirectory_RejectPolicy(t *testing.T) {
	doc := `[{"username":"a","password":"x","active":true,"expires":"2099-01-01"},
	         {"username":"a","password":"y","active":true,"expires":"2099-01-01"}]`
	s := newSvc(t, &fakeClient{Doc: []byte(doc)}, &fakeStore{}, Options{Policy: directory.Reject})

	_, err := s.LoadDirectory(context.Background())
	require.ErrorIs(t, err, directory.ErrDuplicateUser)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, &fakeClient{Doc: []byte(aliceDoc)}, &fakeStore{}, Options{AllowPlaintext: true})

	dir, err := s.LoadDirectory(ctx)
	require.NoError(t, err)

	rec, err := s.Validate(ctx, dir, "alice", []byte("pw1"))
	require.NoError(t, err)
	require.Equal(t, "alice", rec.Username)

	_, err = s.Validate(ctx, dir, "alice", []byte("wrong"))
	require.ErrorIs(t, err, directory.ErrInvalidPassword)

	_, err = s.Validate(ctx, dir, "bob", []byte("x"))
	require.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestValidate_PlaintextDisabled(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t, &fakeClient{Doc: []byte(aliceDoc)}, &fakeStore{}, Options{})

	dir, err := s.LoadDirectory(ctx)
	require.NoError(t, err)

	_, err = s.Validate(ctx, dir, "alice", []byte("pw1"))
	require.ErrorIs(t, err, cryptox.ErrPlaintextRejected)
}

func TestSessionLifecycle_WithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := newSvc(t, &fakeClient{}, tokens.NewSQLiteStore(db), Options{})
	tok := tokens.LocalAuthToken{Username: "alice", MachineID: "M1", ExpiresUTC: time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)}

	require.NoError(t, s.SaveSession(ctx, tok))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, tok, *got)

	require.NoError(t, s.ClearSession(ctx))
	got, err = s.LoadSession(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSession_StoreErrorsWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	s := newSvc(t, &fakeClient{}, &fakeStore{SaveErr: boom, DelErr: boom}, Options{})

	err := s.SaveSession(ctx, tokens.LocalAuthToken{Username: "a"})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "save session")

	err = s.ClearSession(ctx)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "clear session")
}

func TestClose_DelegatesToClient(t *testing.T) {
	fc := &fakeClient{CloseErr: errors.New("x")}
	s := newSvc(t, fc, &fakeStore{}, Options{})

	require.Error(t, s.Close(context.Background()))
	require.True(t, fc.Closed)
}
