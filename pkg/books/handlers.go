package books

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Roshanshah098/bonewaroshan/pkg/auth"
	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/pagination"
	"github.com/Roshanshah098/bonewaroshan/pkg/searches"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	bookService   *Service
	searchService *searches.Service
}

// list returns a filtered page of books. A non-empty search query is also
// appended to the caller's search history; that write is fail-open and never
// fails the read.
func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := params.Limit()
	offset := params.Offset()
	opts := ListBooksOptions{
		Limit:      &limit,
		Offset:     &offset,
		Search:     params.Search,
		Title:      params.Title,
		Author:     params.Author,
		Genre:      params.Genre,
		Categories: params.Categories,
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	if user != nil && params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		if _, err := h.searchService.RecordSearch(ctx, user.ID, *params.Search); err != nil {
			logger.FromContext(ctx).Err(err).Warn("failed to record search history")
		}
	}

	resp := struct {
		Books      []*Book         `json:"books"`
		Pagination pagination.Meta `json:"pagination"`
	}{books, pagination.NewMeta(params.Query, total)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID: &id,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &Book{
		Title:       params.Title,
		Author:      params.Author,
		Genre:       params.Genre,
		Description: params.Description,
		Categories:  params.Categories,
	}
	if params.PublishedDate != nil {
		published, err := time.Parse("2006-01-02", *params.PublishedDate)
		if err != nil {
			return errcodes.ValidationError(`"published_date" should be in the format of YYYY-MM-DD`)
		}
		book.PublishedDate = &published
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

// trending returns the ranked trending list.
func (h *handler) trending(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	trending, total, err := h.bookService.ListTrendingBooks(ctx, params, time.Now())
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Trending   []*TrendingBook `json:"trending"`
		Pagination pagination.Meta `json:"pagination"`
	}{trending, pagination.NewMeta(params, total)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// recentSearches returns the caller's last 10 searches, newest first.
func (h *handler) recentSearches(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)

	recent, err := h.searchService.ListRecentSearches(ctx, user.ID, 10)
	if err != nil {
		return errors.WithStack(err)
	}
	if len(recent) == 0 {
		return errcodes.NotFound("Search history")
	}

	resp := struct {
		RecentSearches []*searches.PreviousSearch `json:"recent_searches"`
	}{recent}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// suggestions derives an uncapped suggestion list from the caller's five
// most recent searches.
func (h *handler) suggestions(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)

	suggested, hadHistory, err := h.bookService.SuggestBooks(ctx, user.ID, SuggestBooksOptions{
		RecentQueries: SuggestionQueryCount,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if !hadHistory {
		return errcodes.NotFound("Search history")
	}

	resp := struct {
		Suggestions []*Book `json:"suggestions"`
	}{suggested}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// previousSearchBooks returns up to 10 books matched from the caller's whole
// search history.
func (h *handler) previousSearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)

	matched, hadHistory, err := h.bookService.SuggestBooks(ctx, user.ID, SuggestBooksOptions{
		MaxResults: PreviousSearchBooksLimit,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if !hadHistory {
		return errcodes.NotFound("Search history")
	}

	resp := struct {
		Books []*Book `json:"books"`
	}{matched}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// rate replaces a book's rating. A missing rating is a required-field error;
// an out-of-range one is a validation error.
func (h *handler) rate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	params := RateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if params.Rating == nil {
		return errcodes.RequiredField("rating")
	}

	book, err := h.bookService.RateBook(ctx, id, *params.Rating)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

// view records a view event for the book.
func (h *handler) view(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	var userID *int
	if user := auth.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	view, err := h.bookService.RecordView(ctx, id, userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, view))
}

// clearHistory deletes all of the caller's search history.
func (h *handler) clearHistory(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)

	_, err := h.searchService.ClearSearchHistory(ctx, user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
