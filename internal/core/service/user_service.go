package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// UserService implements profile and admin operations over accounts.
type UserService struct {
	users ports.UserRepository
	roles ports.RoleRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, input ports.ListInput) (*ports.ListResult[domain.User], error) {
	input.Normalize()
	items, total, err := s.users.List(ctx, input)
	if err != nil {
		return nil, err
	}
	return pageResult(items, total, input.Page, input.Limit), nil
}

// Update applies profile changes. A role change is validated against the role
// collection before being persisted.
func (s *UserService) Update(ctx context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	if update.Roles != nil {
		for _, roleID := range *update.Roles {
			if _, err := s.roles.FindByID(ctx, roleID); err != nil {
				if errors.Is(err, domain.ErrRoleNotFound) {
					return nil, domain.NewValidationError(map[string]string{"roles": "role does not exist: " + roleID})
				}
				return nil, err
			}
		}
	}
	return s.users.Update(ctx, id, update)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}
