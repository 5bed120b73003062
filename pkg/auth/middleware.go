package auth

import (
	"strings"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/users"
	"github.com/labstack/echo/v4"
)

const userContextKey = "user"

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{authService: authService}
}

// Authenticate extracts and validates the bearer token from the Authorization
// header, verifies the user is still active, and stores the user in the
// request context. Returns 401 otherwise.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		token := bearerToken(c)
		if token == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		user, err := m.authService.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return errcodes.Unauthorized("User not found or inactive")
		}

		c.Set(userContextKey, user)

		return next(c)
	}
}

// AuthenticateOptional stores the user in the context when a valid token is
// present but lets the request through either way. Used for endpoints that
// only personalize their behavior, like view recording.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if token := bearerToken(c); token != "" {
			claims, err := m.authService.ValidateToken(token)
			if err == nil {
				user, err := m.authService.GetUserByID(ctx, claims.UserID)
				if err == nil {
					c.Set(userContextKey, user)
				}
			}
		}

		return next(c)
	}
}

// CurrentUser returns the authenticated user from the context, or nil. Core
// operations take the user as an explicit parameter, so handlers call this
// once and pass the result down.
func CurrentUser(c echo.Context) *users.User {
	user, ok := c.Get(userContextKey).(*users.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
