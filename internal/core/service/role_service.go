package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// RoleService manages roles and resolves role names to permission sets for
// the authorization middleware.
type RoleService struct {
	roles ports.RoleRepository
	perms ports.PermissionRepository
	log   zerolog.Logger
}

func NewRoleService(roles ports.RoleRepository, perms ports.PermissionRepository, log zerolog.Logger) *RoleService {
	return &RoleService{roles: roles, perms: perms, log: log}
}

func (s *RoleService) Create(ctx context.Context, name, description string, permissionIDs []string) (*domain.Role, error) {
	if err := s.validatePermissionIDs(ctx, permissionIDs); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return s.roles.Create(ctx, &domain.Role{
		Name:        name,
		Description: description,
		Permissions: permissionIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

func (s *RoleService) Update(ctx context.Context, id, name, description string, permissionIDs []string) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validatePermissionIDs(ctx, permissionIDs); err != nil {
		return nil, err
	}
	role.Name = name
	role.Description = description
	role.Permissions = permissionIDs
	role.UpdatedAt = time.Now().UTC()
	return s.roles.Update(ctx, id, role)
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return err
	}
	return s.roles.Delete(ctx, id)
}

// PermissionsFor resolves role names to the union of their permission keys.
func (s *RoleService) PermissionsFor(ctx context.Context, roleNames []string) (map[string]struct{}, error) {
	permIDs := make([]string, 0)
	for _, name := range roleNames {
		role, err := s.roles.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrRoleNotFound) {
				// A role embedded in an old token may have been deleted
				// since issuance; it simply grants nothing.
				continue
			}
			return nil, err
		}
		permIDs = append(permIDs, role.Permissions...)
	}

	perms, err := s.perms.FindByIDs(ctx, permIDs)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p.Key()] = struct{}{}
	}
	return set, nil
}

func (s *RoleService) validatePermissionIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.perms.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrPermissionNotFound) {
				return domain.NewValidationError(map[string]string{"permissions": "permission does not exist: " + id})
			}
			return err
		}
	}
	return nil
}

// PermissionService manages the permission catalogue.
type PermissionService struct {
	perms ports.PermissionRepository
	log   zerolog.Logger
}

func NewPermissionService(perms ports.PermissionRepository, log zerolog.Logger) *PermissionService {
	return &PermissionService{perms: perms, log: log}
}

func (s *PermissionService) Create(ctx context.Context, action, resource string) (*domain.Permission, error) {
	return s.perms.Create(ctx, &domain.Permission{Action: action, Resource: resource})
}

func (s *PermissionService) List(ctx context.Context) ([]domain.Permission, error) {
	return s.perms.List(ctx)
}

func (s *PermissionService) Delete(ctx context.Context, id string) error {
	if _, err := s.perms.FindByID(ctx, id); err != nil {
		return err
	}
	return s.perms.Delete(ctx, id)
}
