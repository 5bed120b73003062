package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{genreService: NewService(db)}

	g.GET("", h.list)
	g.GET("/search", h.search)
	g.POST("/selection", h.selection)
}
