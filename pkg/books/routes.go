package books

import (
	"github.com/Roshanshah098/bonewaroshan/pkg/auth"
	"github.com/Roshanshah098/bonewaroshan/pkg/searches"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
// View recording only personalizes its behavior for a signed-in user, so it
// takes optional authentication; everything else requires it.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	bookService := NewService(db)
	searchService := searches.NewService(db)

	h := &handler{
		bookService:   bookService,
		searchService: searchService,
	}

	g.GET("", h.list, authMiddleware.Authenticate)
	g.POST("", h.create, authMiddleware.Authenticate)
	g.GET("/trending-books", h.trending, authMiddleware.Authenticate)
	g.GET("/recent-searches", h.recentSearches, authMiddleware.Authenticate)
	g.GET("/suggestions", h.suggestions, authMiddleware.Authenticate)
	g.GET("/previous-search-books", h.previousSearchBooks, authMiddleware.Authenticate)
	g.DELETE("/clear-history", h.clearHistory, authMiddleware.Authenticate)
	g.GET("/:id", h.retrieve, authMiddleware.Authenticate)
	g.POST("/:id/rate", h.rate, authMiddleware.Authenticate)
	g.POST("/:id/view", h.view, authMiddleware.AuthenticateOptional)
}
