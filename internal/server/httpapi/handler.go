package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/assetgate/internal/common"
	"github.com/dmitrijs2005/assetgate/internal/logging"
	"github.com/dmitrijs2005/assetgate/internal/server/models"
	"github.com/dmitrijs2005/assetgate/internal/server/services"
)

type handler struct {
	dir    Directory
	logger logging.Logger
}

// userView is the admin API representation of a user. Hashes stay on the
// public document only.
type userView struct {
	Username  string    `json:"username"`
	Active    bool      `json:"active"`
	Expires   string    `json:"expires"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toView(u models.DirectoryUser) userView {
	return userView{
		Username:  u.Username,
		Active:    u.Active,
		Expires:   u.Expires.UTC().Format(time.DateOnly),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type createRequest struct {
	Username string  `json:"username"`
	Password *string `json:"password"`
	Active   *bool   `json:"active"`
	Expires  *string `json:"expires"`
}

type updateRequest struct {
	Password *string `json:"password"`
	Active   *bool   `json:"active"`
	Expires  *string `json:"expires"`
}

func (h *handler) document(c echo.Context) error {
	data, _, err := h.dir.Document(c.Request().Context())
	if err != nil {
		return h.toHTTPError(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (h *handler) listUsers(c echo.Context) error {
	users, err := h.dir.List(c.Request().Context())
	if err != nil {
		return h.toHTTPError(c, err)
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toView(u))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *handler) getUser(c echo.Context) error {
	u, err := h.dir.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return h.toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, toView(*u))
}

func (h *handler) createUser(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	u, err := h.dir.Create(c.Request().Context(), actor(c), services.UserInput{
		Username: req.Username,
		Password: req.Password,
		Active:   req.Active,
		Expires:  req.Expires,
	})
	if err != nil {
		return h.toHTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, toView(*u))
}

func (h *handler) updateUser(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Password == nil && req.Active == nil && req.Expires == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	u, err := h.dir.Update(c.Request().Context(), actor(c), services.UserInput{
		Username: c.Param("username"),
		Password: req.Password,
		Active:   req.Active,
		Expires:  req.Expires,
	})
	if err != nil {
		return h.toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, toView(*u))
}

func (h *handler) deleteUser(c echo.Context) error {
	if err := h.dir.Delete(c.Request().Context(), actor(c), c.Param("username")); err != nil {
		return h.toHTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) publish(c echo.Context) error {
	res, err := h.dir.Publish(c.Request().Context(), actor(c))
	if err != nil {
		return h.toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// toHTTPError maps service errors onto status codes. Unknown errors are
// logged and hidden behind a generic 500.
func (h *handler) toHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return echo.NewHTTPError(http.StatusBadRequest, strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": "))
	case errors.Is(err, common.ErrorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	default:
		h.logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
