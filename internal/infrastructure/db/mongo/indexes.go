package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureAllIndexes creates the indexes of every collection. Index creation in
// MongoDB is idempotent, so this runs unconditionally at startup.
func EnsureAllIndexes(ctx context.Context, db *mongo.Database) error {
	ensurers := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		NewUserRepository(db),
		NewRoleRepository(db),
		NewPermissionRepository(db),
		NewBlacklistRepository(db),
		NewPostRepository(db),
		NewCommentRepository(db),
		NewCategoryRepository(db),
	}
	for _, e := range ensurers {
		if err := e.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
