package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// CommentService implements comment CRUD scoped under posts.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	log      zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, log zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, log: log}
}

func (s *CommentService) Create(ctx context.Context, postID, authorID, content string) (*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.comments.Create(ctx, comment)
}

func (s *CommentService) ListByPost(ctx context.Context, postID string, input ports.ListInput) (*ports.ListResult[domain.Comment], error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	input.Normalize()
	items, total, err := s.comments.ListByPost(ctx, postID, input)
	if err != nil {
		return nil, err
	}
	return pageResult(items, total, input.Page, input.Limit), nil
}

func (s *CommentService) Update(ctx context.Context, id, content string) (*domain.Comment, error) {
	return s.comments.Update(ctx, id, content)
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	if _, err := s.comments.FindByID(ctx, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}
