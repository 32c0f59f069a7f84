package ports

import (
	"context"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// RoleRepository persists roles and their permission references.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	Update(ctx context.Context, id string, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// PermissionRepository persists (action, resource) permission pairs.
type PermissionRepository interface {
	Create(ctx context.Context, perm *domain.Permission) (*domain.Permission, error)
	FindByID(ctx context.Context, id string) (*domain.Permission, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Permission, error)
	List(ctx context.Context) ([]domain.Permission, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// BlacklistRepository is the append-only record of revoked refresh tokens.
type BlacklistRepository interface {
	Add(ctx context.Context, entry domain.BlacklistEntry) error
	Contains(ctx context.Context, tokenValue string) (bool, error)
}
