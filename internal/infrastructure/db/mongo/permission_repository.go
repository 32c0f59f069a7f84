package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// PermissionRepository implements ports.PermissionRepository.
type PermissionRepository struct {
	coll *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{coll: db.Collection(permissionsCollection)}
}

type mongoPermission struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Action   string             `bson:"action"`
	Resource string             `bson:"resource"`
}

func (mp *mongoPermission) toDomain() *domain.Permission {
	return &domain.Permission{
		ID:       mp.ID.Hex(),
		Action:   mp.Action,
		Resource: mp.Resource,
	}
}

func (r *PermissionRepository) Create(ctx context.Context, perm *domain.Permission) (*domain.Permission, error) {
	res, err := r.coll.InsertOne(ctx, mongoPermission{Action: perm.Action, Resource: perm.Resource})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrPermissionExists
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}
	created := *perm
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PermissionRepository) FindByID(ctx context.Context, id string) (*domain.Permission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPermissionNotFound
	}
	var mp mongoPermission
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PermissionRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Permission, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	return r.findAll(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	return r.findAll(ctx, bson.M{})
}

func (r *PermissionRepository) findAll(ctx context.Context, filter bson.M) ([]domain.Permission, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer cur.Close(ctx)

	perms := make([]domain.Permission, 0)
	for cur.Next(ctx) {
		var mp mongoPermission
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode permission: %w", err)
		}
		perms = append(perms, *mp.toDomain())
	}
	return perms, cur.Err()
}

func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPermissionNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

func (r *PermissionRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the unique (action, resource) compound index.
func (r *PermissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "action", Value: 1}, {Key: "resource", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
