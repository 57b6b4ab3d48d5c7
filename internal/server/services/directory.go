// Package services contains server-side business logic. DirectoryService
// manages the user directory and renders the document clients fetch.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/assetgate/internal/common"
	"github.com/dmitrijs2005/assetgate/internal/cryptox"
	"github.com/dmitrijs2005/assetgate/internal/dbx"
	"github.com/dmitrijs2005/assetgate/internal/directory"
	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/dmitrijs2005/assetgate/internal/server/config"
	"github.com/dmitrijs2005/assetgate/internal/server/events"
	"github.com/dmitrijs2005/assetgate/internal/server/models"
	"github.com/dmitrijs2005/assetgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assetgate/internal/timex"
)

const maxUsernameLen = 128

// UserInput carries fields of a create or update request. Nil fields are
// left unchanged on update; on create Active defaults to true.
type UserInput struct {
	Username string
	Password *string
	Active   *bool
	Expires  *string
}

type DirectoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	publisher   events.Publisher
	log         logging.Logger
}

func NewDirectoryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, p events.Publisher, log logging.Logger) *DirectoryService {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &DirectoryService{
		db:          db,
		repomanager: m,
		config:      cfg,
		publisher:   p,
		log:         log.With("module", "directory"),
	}
}

func (s *DirectoryService) List(ctx context.Context) ([]models.DirectoryUser, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

func (s *DirectoryService) Get(ctx context.Context, username string) (*models.DirectoryUser, error) {
	return s.repomanager.Users(s.db).Get(ctx, username)
}

// Create adds a user. Username, password and expiry are required.
func (s *DirectoryService) Create(ctx context.Context, actor string, in UserInput) (*models.DirectoryUser, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if in.Password == nil || *in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if in.Expires == nil {
		return nil, fmt.Errorf("%w: expires is required", common.ErrorValidation)
	}

	user := &models.DirectoryUser{Username: username, Active: true}
	if err := s.applyInput(user, in); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user created", "username", username, "actor", actor)
	s.audit(ctx, events.NewEvent(events.TypeUserCreated, username, actor))
	return created, nil
}

// Update changes the given fields of an existing user inside a transaction.
func (s *DirectoryService) Update(ctx context.Context, actor string, in UserInput) (*models.DirectoryUser, error) {
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}

	var updated *models.DirectoryUser
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.Get(ctx, username)
		if err != nil {
			return err
		}
		if err := s.applyInput(user, in); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	e := events.NewEvent(events.TypeUserUpdated, username, actor)
	e.Details = changedFields(in)
	s.log.Info(ctx, "user updated", "username", username, "actor", actor)
	s.audit(ctx, e)
	return updated, nil
}

func (s *DirectoryService) Delete(ctx context.Context, actor string, username string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, username); err != nil {
		return err
	}

	s.log.Info(ctx, "user deleted", "username", username, "actor", actor)
	s.audit(ctx, events.NewEvent(events.TypeUserDeleted, username, actor))
	return nil
}

// Document renders the directory as the JSON array clients parse. It also
// returns the number of users in it.
func (s *DirectoryService) Document(ctx context.Context) ([]byte, int, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, 0, err
	}

	records := make([]directory.UserRecord, 0, len(users))
	for _, u := range users {
		records = append(records, directory.UserRecord{
			Username: u.Username,
			Password: u.PasswordHash,
			Active:   u.Active,
			Expires:  directory.Date{Time: timex.Day(u.Expires)},
		})
	}

	data, err := directory.Marshal(records)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal directory: %w", err)
	}
	return data, len(records), nil
}

func (s *DirectoryService) applyInput(user *models.DirectoryUser, in UserInput) error {
	if in.Password != nil {
		if *in.Password == "" {
			return fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
		}
		pw := []byte(*in.Password)
		hash, err := cryptox.HashPassword(pw, s.config.BcryptCost)
		common.WipeByteArray(pw)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Expires != nil {
		d, err := directory.ParseDate(*in.Expires)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		user.Expires = d.Time
	}
	return nil
}

// audit publishes e; failures are logged and never fail the request.
func (s *DirectoryService) audit(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn(ctx, "audit event not published", "type", e.Type, "error", err)
	}
}

func normalizeUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", fmt.Errorf("%w: username is required", common.ErrorValidation)
	case len(name) > maxUsernameLen:
		return "", fmt.Errorf("%w: username is too long", common.ErrorValidation)
	case strings.ContainsAny(name, " \t\r\n"):
		return "", fmt.Errorf("%w: username must not contain whitespace", common.ErrorValidation)
	}
	return name, nil
}

func changedFields(in UserInput) map[string]string {
	d := map[string]string{}
	if in.Password != nil {
		d["password"] = "changed"
	}
	if in.Active != nil {
		d["active"] = fmt.Sprint(*in.Active)
	}
	if in.Expires != nil {
		d["expires"] = *in.Expires
	}
	return d
}
