package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// CategoryService implements category CRUD. Categories are admin-managed.
type CategoryService struct {
	categories ports.CategoryRepository
	posts      ports.PostRepository
	log        zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, posts ports.PostRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, posts: posts, log: log}
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	now := time.Now().UTC()
	return s.categories.Create(ctx, &domain.Category{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id, name, description string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = description
	category.UpdatedAt = time.Now().UTC()
	return s.categories.Update(ctx, id, category)
}

// Delete removes the category. Posts filed under it keep existing but lose
// the category reference.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.posts.ClearCategory(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("category_id", id).Msg("failed to unlink posts from category")
	}
	return nil
}
