package tokens

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/assetgate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/assetgate/internal/common"
	"github.com/dmitrijs2005/assetgate/internal/dbx"
)

const (
	tokenKey      = "session.token"
	signingKeyKey = "session.signing_key"
	signingKeyLen = 32
)

// SQLiteStore keeps the token as a signed JWT in the metadata table. The
// HMAC key is generated on first save and stays with the installation.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) Save(ctx context.Context, t LocalAuthToken) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		key, err := repo.Get(ctx, signingKeyKey)
		if err != nil {
			return err
		}
		if len(key) == 0 {
			key = common.GenerateRandByteArray(signingKeyLen)
			if err := repo.Set(ctx, signingKeyKey, key); err != nil {
				return err
			}
		}

		signed, err := Encode(t, key, s.now())
		if err != nil {
			return err
		}
		return repo.Set(ctx, tokenKey, []byte(signed))
	})
}

func (s *SQLiteStore) Load(ctx context.Context) (*LocalAuthToken, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	raw, err := repo.Get(ctx, tokenKey)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	key, err := repo.Get(ctx, signingKeyKey)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: signing key missing", ErrInvalidToken)
	}

	t, err := Decode(string(raw), key)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes the token. The signing key is kept so later tokens from
// this installation stay verifiable.
func (s *SQLiteStore) Delete(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, tokenKey)
}
