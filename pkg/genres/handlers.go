package genres

import (
	"net/http"

	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	genreService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListGenresQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genres, err := h.genreService.ListGenres(ctx, ListGenresOptions{Name: params.Name})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Genres []*Genre `json:"genres"`
	}{genres}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// search behaves like list but treats an empty match set as not found.
func (h *handler) search(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListGenresQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	genres, err := h.genreService.ListGenres(ctx, ListGenresOptions{Name: params.Name})
	if err != nil {
		return errors.WithStack(err)
	}
	if len(genres) == 0 {
		return errcodes.NotFound("Genre")
	}

	resp := struct {
		Results []*Genre `json:"results"`
	}{genres}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// selection validates a set of chosen genre interests.
func (h *handler) selection(c echo.Context) error {
	ctx := c.Request().Context()

	params := SelectionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.genreService.ValidateSelection(ctx, params.GenreIDs); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Selection is valid."}))
}
