package ports

import (
	"context"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// PostListInput extends the shared pagination with a category filter.
type PostListInput struct {
	ListInput
	Category string
	// AuthorID narrows the list to one author when non-empty.
	AuthorID string
}

// PostRepository persists blog posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, input PostListInput) ([]domain.Post, int64, error)
	Update(ctx context.Context, id string, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	// ClearCategory empties the category reference on every post filed
	// under the given category.
	ClearCategory(ctx context.Context, categoryID string) error
	Count(ctx context.Context) (int64, error)
}

// CommentRepository persists comments under posts.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string, input ListInput) ([]domain.Comment, int64, error)
	Update(ctx context.Context, id string, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
	Count(ctx context.Context) (int64, error)
}

// CategoryRepository persists post categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id string, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
