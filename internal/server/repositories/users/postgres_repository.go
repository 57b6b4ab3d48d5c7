package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/assetgate/internal/common"
	"github.com/dmitrijs2005/assetgate/internal/dbx"
	"github.com/dmitrijs2005/assetgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.DirectoryUser) (*models.DirectoryUser, error) {
	query :=
		`INSERT INTO directory_users (username, password_hash, active, expires)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Active, user.Expires).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Get(ctx context.Context, username string) (*models.DirectoryUser, error) {
	query :=
		`SELECT username, password_hash, active, expires, created_at, updated_at FROM directory_users
		 WHERE username = $1
		 `

	user := &models.DirectoryUser{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username, &user.PasswordHash, &user.Active, &user.Expires, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.DirectoryUser, error) {
	query :=
		`SELECT username, password_hash, active, expires, created_at, updated_at FROM directory_users
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.DirectoryUser, 0)
	for rows.Next() {
		var u models.DirectoryUser
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Active, &u.Expires, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.DirectoryUser) (*models.DirectoryUser, error) {
	query :=
		`UPDATE directory_users
		 SET password_hash = $2, active = $3, expires = $4, updated_at = now()
		 WHERE username = $1
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Active, user.Expires).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, username string) error {
	query := `DELETE FROM directory_users WHERE username = $1`

	err := dbx.RequireAffected(r.db.ExecContext(ctx, query, username))
	if errors.Is(err, dbx.ErrNoRowsAffected) {
		return common.ErrorNotFound
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
