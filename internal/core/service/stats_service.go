package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/ports"
)

// recentSignupWindow is the lookback for the dashboard's recent-signups count.
const recentSignupWindow = 7 * 24 * time.Hour

// StatsService collects the admin dashboard counters.
type StatsService struct {
	users      ports.UserRepository
	posts      ports.PostRepository
	comments   ports.CommentRepository
	categories ports.CategoryRepository
	roles      ports.RoleRepository
	log        zerolog.Logger
}

func NewStatsService(
	users ports.UserRepository,
	posts ports.PostRepository,
	comments ports.CommentRepository,
	categories ports.CategoryRepository,
	roles ports.RoleRepository,
	log zerolog.Logger,
) *StatsService {
	return &StatsService{
		users:      users,
		posts:      posts,
		comments:   comments,
		categories: categories,
		roles:      roles,
		log:        log,
	}
}

func (s *StatsService) Collect(ctx context.Context) (*ports.Stats, error) {
	stats := &ports.Stats{}

	counts := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&stats.Users, s.users.Count},
		{&stats.Posts, s.posts.Count},
		{&stats.Comments, s.comments.Count},
		{&stats.Categories, s.categories.Count},
		{&stats.Roles, s.roles.Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	recent, err := s.users.CountCreatedSince(ctx, time.Now().UTC().Add(-recentSignupWindow))
	if err != nil {
		return nil, err
	}
	stats.RecentSignups = recent

	return stats, nil
}
