package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/assetgate/internal/filex"
)

// FileStore keeps the token as a JSON document readable only by the
// current user.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(ctx context.Context, t LocalAuthToken) error {
	t.ExpiresUTC = t.ExpiresUTC.UTC()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("save token %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (*LocalAuthToken, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load token %s: %w", s.path, err)
	}

	var t LocalAuthToken
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if t.Username == "" || t.ExpiresUTC.IsZero() {
		return nil, ErrInvalidToken
	}
	return &t, nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete token %s: %w", s.path, err)
	}
	return nil
}
