package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/api/middleware"
	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type commentResponse struct {
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toCommentResponse(cm *domain.Comment) commentResponse {
	return commentResponse{
		ID:        cm.ID,
		PostID:    cm.PostID,
		AuthorID:  cm.AuthorID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: cm.UpdatedAt.UTC().Format(timeLayout),
	}
}

type CommentHandler struct {
	commentService ports.CommentService
}

func NewCommentHandler(commentService ports.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create adds a comment to a post, authored by the caller.
//
// @Summary      Create comment
// @Tags         comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Post id"
// @Param        body  body      commentRequest  true  "Comment body"
// @Success      201   {object}  envelope{data=commentResponse}
// @Failure      404   {object}  envelope
// @Router       /posts/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentService.Create(c.Request().Context(), c.Param("id"), middleware.CallerID(c), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "comment created", toCommentResponse(comment))
}

// ListByPost returns a page of comments for a post.
//
// @Summary      List comments for a post
// @Tags         comments
// @Produce      json
// @Param        id     path      string  true   "Post id"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  envelope{data=[]commentResponse}
// @Failure      404    {object}  envelope
// @Router       /posts/{id}/comments [get]
func (h *CommentHandler) ListByPost(c echo.Context) error {
	result, err := h.commentService.ListByPost(c.Request().Context(), c.Param("id"), listInput(c))
	if err != nil {
		return err
	}

	comments := make([]commentResponse, 0, len(result.Items))
	for i := range result.Items {
		comments = append(comments, toCommentResponse(&result.Items[i]))
	}
	return respondList(c, http.StatusOK, "comments", comments, meta{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Update replaces a comment's content.
//
// @Summary      Update comment
// @Tags         comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Comment id"
// @Param        body  body      commentRequest  true  "New content"
// @Success      200   {object}  envelope{data=commentResponse}
// @Failure      404   {object}  envelope
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.commentService.Update(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "comment updated", toCommentResponse(comment))
}

// Delete removes a comment.
//
// @Summary      Delete comment
// @Tags         comments
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Comment id"
// @Success      204  "deleted"
// @Failure      404  {object}  envelope
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.commentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
