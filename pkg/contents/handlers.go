package contents

import (
	"net/http"
	"strconv"

	"github.com/Roshanshah098/bonewaroshan/pkg/auth"
	"github.com/Roshanshah098/bonewaroshan/pkg/errcodes"
	"github.com/Roshanshah098/bonewaroshan/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	contentService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListContentsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := params.Limit()
	offset := params.Offset()
	contents, total, err := h.contentService.ListContentsWithTotal(ctx, ListContentsOptions{
		Limit:  &limit,
		Offset: &offset,
		Kind:   params.Kind,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Contents   []*Content      `json:"contents"`
		Pagination pagination.Meta `json:"pagination"`
	}{contents, pagination.NewMeta(params.Query, total)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Content")
	}

	content, err := h.contentService.RetrieveContent(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, content))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)

	params := CreateContentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	content := &Content{
		Kind:          params.Kind,
		Title:         params.Title,
		Body:          params.Body,
		ThumbnailPath: params.ThumbnailPath,
		AuthorID:      &user.ID,
	}

	if err := h.contentService.CreateContent(ctx, content); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, content))
}

func (h *handler) addComment(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)
	contentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Content")
	}

	params := CreateCommentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	comment := &Comment{
		UserID:      user.ID,
		ContentID:   contentID,
		ParentID:    params.ParentID,
		CommentText: params.CommentText,
	}

	if err := h.contentService.CreateComment(ctx, comment); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, comment))
}

func (h *handler) listComments(c echo.Context) error {
	ctx := c.Request().Context()
	contentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Content")
	}

	if _, err := h.contentService.RetrieveContent(ctx, contentID); err != nil {
		return errors.WithStack(err)
	}

	comments, err := h.contentService.ListComments(ctx, contentID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Comments []*Comment `json:"comments"`
	}{comments}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
