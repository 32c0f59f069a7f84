package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/api/middleware"
	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
	"github.com/inkpress/blog-platform/internal/infrastructure/storage"
)

type createPostRequest struct {
	Title     string `form:"title" validate:"required,min=3,max=200"`
	Content   string `form:"content" validate:"required"`
	Category  string `form:"category"`
	Published bool   `form:"published"`
}

type PostHandler struct {
	postService ports.PostService
	uploads     *storage.Store
	baseURL     string
}

func NewPostHandler(postService ports.PostService, uploads *storage.Store, baseURL string) *PostHandler {
	return &PostHandler{postService: postService, uploads: uploads, baseURL: baseURL}
}

// Create publishes a new post authored by the caller.
//
// @Summary      Create post
// @Tags         posts
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        title      formData  string  true   "Post title"
// @Param        content    formData  string  true   "Post body"
// @Param        category   formData  string  false  "Category id"
// @Param        published  formData  bool    false  "Publish immediately"
// @Param        image      formData  file    false  "Cover image"
// @Success      201        {object}  envelope{data=postResponse}
// @Failure      400        {object}  envelope
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var image string
	if file, err := c.FormFile("image"); err == nil {
		name, err := saveUpload(h.uploads, storage.KindPostImage, file)
		if err != nil {
			return err
		}
		image = name
	}

	post, err := h.postService.Create(c.Request().Context(), ports.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Image:     image,
		AuthorID:  middleware.CallerID(c),
		Published: req.Published,
	})
	if err != nil {
		if image != "" {
			_ = h.uploads.Remove(storage.KindPostImage, image)
		}
		return err
	}

	return respond(c, http.StatusCreated, "post created", toPostResponse(post, h.baseURL))
}

// Get returns a single post.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  envelope{data=postResponse}
// @Failure      404  {object}  envelope
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.postService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "post", toPostResponse(post, h.baseURL))
}

// List returns a page of posts, optionally filtered by category or author.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Param        search    query     string  false  "Match against title or content"
// @Param        category  query     string  false  "Category id"
// @Param        author    query     string  false  "Author id"
// @Success      200       {object}  envelope{data=[]postResponse}
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	input := ports.PostListInput{
		ListInput: listInput(c),
		Category:  c.QueryParam("category"),
		AuthorID:  c.QueryParam("author"),
	}

	result, err := h.postService.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return respondList(c, http.StatusOK, "posts", toPostResponseList(result.Items, h.baseURL), meta{
		Page:       result.Page,
		Limit:      result.Limit,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}

// Update mutates post fields; absent form fields are left unchanged.
//
// @Summary      Update post
// @Tags         posts
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true   "Post id"
// @Param        title      formData  string  false  "New title"
// @Param        content    formData  string  false  "New body"
// @Param        category   formData  string  false  "Category id, empty to unfile"
// @Param        published  formData  bool    false  "Published flag"
// @Param        image      formData  file    false  "New cover image"
// @Success      200        {object}  envelope{data=postResponse}
// @Failure      400        {object}  envelope
// @Failure      404        {object}  envelope
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var input ports.UpdatePostInput

	if values, ok := formValues(c, "title"); ok && len(values) > 0 {
		title := values[0]
		if len(title) < 3 || len(title) > 200 {
			return domain.NewValidationError(map[string]string{"title": "title must be between 3 and 200 characters"})
		}
		input.Title = &title
	}
	if values, ok := formValues(c, "content"); ok && len(values) > 0 {
		if values[0] == "" {
			return domain.NewValidationError(map[string]string{"content": "content must not be empty"})
		}
		input.Content = &values[0]
	}
	if values, ok := formValues(c, "category"); ok && len(values) > 0 {
		input.Category = &values[0]
	}
	if values, ok := formValues(c, "published"); ok && len(values) > 0 {
		published, err := strconv.ParseBool(values[0])
		if err != nil {
			return domain.NewValidationError(map[string]string{"published": "published must be a boolean"})
		}
		input.Published = &published
	}

	var oldImage string
	if file, err := c.FormFile("image"); err == nil {
		current, err := h.postService.Get(ctx, id)
		if err != nil {
			return err
		}
		oldImage = current.Image

		name, err := saveUpload(h.uploads, storage.KindPostImage, file)
		if err != nil {
			return err
		}
		input.Image = &name
	}

	post, err := h.postService.Update(ctx, id, input)
	if err != nil {
		if input.Image != nil {
			_ = h.uploads.Remove(storage.KindPostImage, *input.Image)
		}
		return err
	}

	if input.Image != nil && oldImage != "" {
		_ = h.uploads.Remove(storage.KindPostImage, oldImage)
	}

	return respond(c, http.StatusOK, "post updated", toPostResponse(post, h.baseURL))
}

// Delete removes a post, its comments, and its stored image.
//
// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Post id"
// @Success      204  "deleted"
// @Failure      404  {object}  envelope
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	post, err := h.postService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if err := h.postService.Delete(c.Request().Context(), post.ID); err != nil {
		return err
	}
	if post.Image != "" {
		_ = h.uploads.Remove(storage.KindPostImage, post.Image)
	}
	return c.NoContent(http.StatusNoContent)
}
