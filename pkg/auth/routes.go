package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the auth routes and returns the service so the
// server can build the authentication middleware from it.
func RegisterRoutes(e *echo.Echo, db *bun.DB, jwtSecret string) *Service {
	authService := NewService(db, jwtSecret)

	h := &handler{authService: authService}

	g := e.Group("/auth")
	g.POST("/login", h.login)

	authMiddleware := NewMiddleware(authService)
	g.GET("/me", h.me, authMiddleware.Authenticate)

	return authService
}
