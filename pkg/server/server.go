package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/auth"
	"github.com/Roshanshah098/bonewaroshan/pkg/binder"
	"github.com/Roshanshah098/bonewaroshan/pkg/books"
	"github.com/Roshanshah098/bonewaroshan/pkg/config"
	"github.com/Roshanshah098/bonewaroshan/pkg/contents"
	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/genres"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	// Register auth routes and build the middleware from the service.
	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	registerAPIRoutes(e, db, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// registerAPIRoutes registers the feature route groups. The user is resolved
// once by the middleware and passed explicitly into every operation by the
// handlers.
func registerAPIRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	books.RegisterRoutesWithGroup(e.Group("/books"), db, authMiddleware)

	genresGroup := e.Group("/genres")
	genresGroup.Use(authMiddleware.Authenticate)
	genres.RegisterRoutesWithGroup(genresGroup, db)

	contentsGroup := e.Group("/contents")
	contentsGroup.Use(authMiddleware.Authenticate)
	contents.RegisterRoutesWithGroup(contentsGroup, db)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
