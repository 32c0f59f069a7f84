package ports

import (
	"context"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// CreatePostInput carries the fields for a new post. Image is the stored
// filename produced by the upload pipeline, empty when no image was attached.
type CreatePostInput struct {
	Title     string
	Content   string
	Category  string
	Image     string
	AuthorID  string
	Published bool
}

// UpdatePostInput carries the mutable post fields. Nil means unchanged.
type UpdatePostInput struct {
	Title     *string
	Content   *string
	Category  *string
	Image     *string
	Published *bool
}

// ListResult wraps a page of items with pagination metadata.
type ListResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostService defines use-case operations for posts.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, input PostListInput) (*ListResult[domain.Post], error)
	Update(ctx context.Context, id string, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}

// CommentService defines use-case operations for comments.
type CommentService interface {
	Create(ctx context.Context, postID, authorID, content string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string, input ListInput) (*ListResult[domain.Comment], error)
	Update(ctx context.Context, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

// CategoryService defines use-case operations for categories.
type CategoryService interface {
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}
