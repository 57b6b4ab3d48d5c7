package users

import (
	"context"

	"github.com/dmitrijs2005/assetgate/internal/server/models"
)

// Repository stores directory users. Missing rows are reported as
// common.ErrorNotFound, duplicate usernames as common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.DirectoryUser) (*models.DirectoryUser, error)
	Get(ctx context.Context, username string) (*models.DirectoryUser, error)
	List(ctx context.Context) ([]models.DirectoryUser, error)
	Update(ctx context.Context, user *models.DirectoryUser) (*models.DirectoryUser, error)
	Delete(ctx context.Context, username string) error
}
