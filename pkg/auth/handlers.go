package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	authService *Service
}

// login validates credentials and returns a bearer token.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, LoginResponse{Token: token, User: user}))
}

// me returns the current authenticated user.
func (h *handler) me(c echo.Context) error {
	user := CurrentUser(c)

	return errors.WithStack(c.JSON(http.StatusOK, user))
}
