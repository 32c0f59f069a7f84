package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// PostService implements post CRUD with reference validation.
type PostService struct {
	posts      ports.PostRepository
	comments   ports.CommentRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	categories ports.CategoryRepository,
	log zerolog.Logger,
) *PostService {
	return &PostService{posts: posts, comments: comments, categories: categories, log: log}
}

func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	if input.Category != "" {
		if _, err := s.categories.FindByID(ctx, input.Category); err != nil {
			if errors.Is(err, domain.ErrCategoryNotFound) {
				return nil, domain.NewValidationError(map[string]string{"category": "category does not exist"})
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     input.Title,
		Slug:      slugify(input.Title),
		Content:   input.Content,
		Image:     input.Image,
		AuthorID:  input.AuthorID,
		Category:  input.Category,
		Published: input.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("post_id", created.ID).Str("author_id", created.AuthorID).Msg("post created")
	return created, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, input ports.PostListInput) (*ports.ListResult[domain.Post], error) {
	input.Normalize()
	items, total, err := s.posts.List(ctx, input)
	if err != nil {
		return nil, err
	}
	return pageResult(items, total, input.Page, input.Limit), nil
}

func (s *PostService) Update(ctx context.Context, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		post.Title = *input.Title
		post.Slug = slugify(*input.Title)
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Category != nil {
		if *input.Category != "" {
			if _, err := s.categories.FindByID(ctx, *input.Category); err != nil {
				if errors.Is(err, domain.ErrCategoryNotFound) {
					return nil, domain.NewValidationError(map[string]string{"category": "category does not exist"})
				}
				return nil, err
			}
		}
		post.Category = *input.Category
	}
	if input.Image != nil {
		post.Image = *input.Image
	}
	if input.Published != nil {
		post.Published = *input.Published
	}
	post.UpdatedAt = time.Now().UTC()

	return s.posts.Update(ctx, id, post)
}

// Delete removes the post and its comments.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if _, err := s.posts.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.comments.DeleteByPost(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("post_id", id).Msg("failed to delete post comments")
	}
	return nil
}

// slugify lowercases the title and collapses non-alphanumerics into hyphens.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// pageResult assembles the shared pagination envelope.
func pageResult[T any](items []T, total int64, page, limit int) *ports.ListResult[T] {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &ports.ListResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
