package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

func newStatsFixture() (*StatsService, *stubUserRepo, *stubPostRepo) {
	users := newStubUserRepo()
	posts := newStubPostRepo()
	comments := newStubCommentRepo()
	categories := newStubCategoryRepo()
	roles := &stubRoleRepo{roles: map[string]*domain.Role{}}
	return NewStatsService(users, posts, comments, categories, roles, zerolog.Nop()), users, posts
}

func TestStatsService_Collect(t *testing.T) {
	svc, users, posts := newStatsFixture()
	now := time.Now().UTC()

	_, _ = users.Create(context.Background(), &domain.User{Email: "a@example.com", CreatedAt: now.Add(-time.Hour)})
	_, _ = users.Create(context.Background(), &domain.User{Email: "b@example.com", CreatedAt: now.Add(-48 * time.Hour)})
	_, _ = users.Create(context.Background(), &domain.User{Email: "c@example.com", CreatedAt: now.Add(-30 * 24 * time.Hour)})
	_, _ = posts.Create(context.Background(), &domain.Post{Title: "t"})

	stats, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if stats.Users != 3 {
		t.Fatalf("users = %d, want 3", stats.Users)
	}
	if stats.Posts != 1 {
		t.Fatalf("posts = %d, want 1", stats.Posts)
	}
	if stats.Comments != 0 || stats.Categories != 0 || stats.Roles != 0 {
		t.Fatalf("empty collections must count zero: %+v", stats)
	}
}

func TestStatsService_Collect_RecentSignupsWindow(t *testing.T) {
	svc, users, _ := newStatsFixture()
	now := time.Now().UTC()

	// Two accounts inside the window, one well outside it.
	_, _ = users.Create(context.Background(), &domain.User{Email: "a@example.com", CreatedAt: now.Add(-time.Hour)})
	_, _ = users.Create(context.Background(), &domain.User{Email: "b@example.com", CreatedAt: now.Add(-6 * 24 * time.Hour)})
	_, _ = users.Create(context.Background(), &domain.User{Email: "c@example.com", CreatedAt: now.Add(-30 * 24 * time.Hour)})

	stats, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if stats.RecentSignups != 2 {
		t.Fatalf("recent signups = %d, want 2", stats.RecentSignups)
	}
}
