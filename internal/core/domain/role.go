package domain

import (
	"errors"
	"time"
)

var ErrRoleNotFound = errors.New("role not found")
var ErrRoleExists = errors.New("role already exists")
var ErrPermissionNotFound = errors.New("permission not found")
var ErrPermissionExists = errors.New("permission already exists")

// Role is a named bundle of permissions. Users reference roles by id;
// authorization resolves the union of permissions across all of a user's roles.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Permission is an (action, resource) pair, e.g. ("update", "post").
type Permission struct {
	ID       string `json:"id"`
	Action   string `json:"action"`
	Resource string `json:"resource"`
}

// Key returns the flattened "action_resource" form used for set membership.
func (p Permission) Key() string {
	return p.Action + "_" + p.Resource
}

// Actions and resources making up the seeded permission matrix.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const (
	ResourceUser       = "user"
	ResourcePost       = "post"
	ResourceComment    = "comment"
	ResourceCategory   = "category"
	ResourceRole       = "role"
	ResourcePermission = "permission"
)
