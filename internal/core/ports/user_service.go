package ports

import (
	"context"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// UserService defines admin/profile operations over accounts.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, input ListInput) (*ListResult[domain.User], error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// RoleService manages roles and their permission assignments.
type RoleService interface {
	Create(ctx context.Context, name, description string, permissionIDs []string) (*domain.Role, error)
	Get(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Update(ctx context.Context, id, name, description string, permissionIDs []string) (*domain.Role, error)
	Delete(ctx context.Context, id string) error

	// PermissionsFor resolves role names to the union of their permission
	// keys ("action_resource"). Used by the authorization middleware.
	PermissionsFor(ctx context.Context, roleNames []string) (map[string]struct{}, error)
}

// PermissionService manages the (action, resource) permission catalogue.
type PermissionService interface {
	Create(ctx context.Context, action, resource string) (*domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
	Delete(ctx context.Context, id string) error
}

// Stats is the admin dashboard snapshot: document counts per collection plus
// the number of accounts created inside the recent-signup window.
type Stats struct {
	Users         int64 `json:"users"`
	Posts         int64 `json:"posts"`
	Comments      int64 `json:"comments"`
	Categories    int64 `json:"categories"`
	Roles         int64 `json:"roles"`
	RecentSignups int64 `json:"recent_signups"`
}

// StatsService aggregates dashboard statistics.
type StatsService interface {
	Collect(ctx context.Context) (*Stats, error)
}
