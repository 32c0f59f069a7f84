package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// Seed bootstraps the permission matrix and the admin/user roles when the
// collections are empty. The admin role receives every permission; the user
// role receives the restricted self-service subset.
func Seed(ctx context.Context, roles *RoleRepository, perms *PermissionRepository, log zerolog.Logger) error {
	count, err := roles.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	actions := []string{domain.ActionCreate, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete}
	resources := []string{
		domain.ResourceUser, domain.ResourcePost, domain.ResourceComment,
		domain.ResourceCategory, domain.ResourceRole, domain.ResourcePermission,
	}

	allIDs := make([]string, 0, len(actions)*len(resources))
	userIDs := make([]string, 0)
	for _, resource := range resources {
		for _, action := range actions {
			created, err := perms.Create(ctx, &domain.Permission{Action: action, Resource: resource})
			if err != nil {
				return err
			}
			allIDs = append(allIDs, created.ID)
			if userPermission(action, resource) {
				userIDs = append(userIDs, created.ID)
			}
		}
	}

	now := time.Now().UTC()
	if _, err := roles.Create(ctx, &domain.Role{
		Name:        domain.RoleAdmin,
		Description: "full access",
		Permissions: allIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return err
	}
	if _, err := roles.Create(ctx, &domain.Role{
		Name:        domain.RoleUser,
		Description: "self-service access",
		Permissions: userIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		return err
	}

	log.Info().Int("permissions", len(allIDs)).Msg("seeded roles and permissions")
	return nil
}

// userPermission reports whether the default user role holds the permission.
// Users can read everything public-facing and manage their own posts,
// comments, and profile; the ownership middleware scopes the mutations.
func userPermission(action, resource string) bool {
	switch resource {
	case domain.ResourcePost, domain.ResourceComment:
		return true
	case domain.ResourceUser:
		return action == domain.ActionRead || action == domain.ActionUpdate
	case domain.ResourceCategory:
		return action == domain.ActionRead
	default:
		return false
	}
}
