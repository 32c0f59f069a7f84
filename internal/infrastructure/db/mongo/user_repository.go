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
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// UserRepository implements ports.UserRepository over the users collection.
// Token consumption is expressed as FindOneAndUpdate with the match condition
// carrying the expiry window, so consume/overwrite races resolve inside a
// single document update.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty"`
	Username            string               `bson:"username"`
	Email               string               `bson:"email"`
	PasswordHash        string               `bson:"password_hash"`
	Roles               []primitive.ObjectID `bson:"roles"`
	Avatar              string               `bson:"avatar,omitempty"`
	IsVerified          bool                 `bson:"is_verified"`
	VerificationToken   string               `bson:"verification_token,omitempty"`
	VerificationExpires time.Time            `bson:"verification_expires,omitempty"`
	ResetToken          string               `bson:"reset_token,omitempty"`
	ResetExpires        time.Time            `bson:"reset_expires,omitempty"`
	RefreshToken        string               `bson:"refresh_token,omitempty"`
	CreatedAt           time.Time            `bson:"created_at"`
	UpdatedAt           time.Time            `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	roles := make([]string, 0, len(mu.Roles))
	for _, r := range mu.Roles {
		roles = append(roles, r.Hex())
	}
	return &domain.User{
		ID:                  mu.ID.Hex(),
		Username:            mu.Username,
		Email:               mu.Email,
		PasswordHash:        mu.PasswordHash,
		Roles:               roles,
		Avatar:              mu.Avatar,
		IsVerified:          mu.IsVerified,
		VerificationToken:   mu.VerificationToken,
		VerificationExpires: mu.VerificationExpires,
		ResetToken:          mu.ResetToken,
		ResetExpires:        mu.ResetExpires,
		RefreshToken:        mu.RefreshToken,
		CreatedAt:           mu.CreatedAt,
		UpdatedAt:           mu.UpdatedAt,
	}
}

func roleIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, domain.ErrRoleNotFound
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	roles, err := roleIDs(user.Roles)
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		Username:            user.Username,
		Email:               user.Email,
		PasswordHash:        user.PasswordHash,
		Roles:               roles,
		Avatar:              user.Avatar,
		IsVerified:          user.IsVerified,
		VerificationToken:   user.VerificationToken,
		VerificationExpires: user.VerificationExpires,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, domain.ErrUserNotFound)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, domain.ErrUserNotFound)
}

func (r *UserRepository) FindByRefreshToken(ctx context.Context, tokenValue string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"refresh_token": tokenValue}, domain.ErrInvalidOrExpiredToken)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, missing error) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, missing
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, input ports.ListInput) ([]domain.User, int64, error) {
	filter := bson.M{}
	if input.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"username": bson.M{"$regex": input.Search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": input.Search, "$options": "i"}},
		}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((input.Page - 1) * input.Limit)).
		SetLimit(int64(input.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]domain.User, 0, input.Limit)
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *mu.toDomain())
	}
	return users, total, cur.Err()
}

func (r *UserRepository) Update(ctx context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}
	if update.Roles != nil {
		roles, err := roleIDs(*update.Roles)
		if err != nil {
			return nil, err
		}
		set["roles"] = roles
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, domain.ErrUserNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, tokenValue string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"verification_token":   tokenValue,
		"verification_expires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set":   bson.M{"is_verified": true, "updated_at": now},
		"$unset": bson.M{"verification_token": "", "verification_expires": ""},
	}
	return r.findOneAndUpdate(ctx, filter, update, domain.ErrInvalidOrExpiredToken)
}

func (r *UserRepository) RotateVerificationToken(ctx context.Context, email, tokenValue string, expires time.Time) (*domain.User, error) {
	filter := bson.M{"email": email, "is_verified": false}
	update := bson.M{"$set": bson.M{
		"verification_token":   tokenValue,
		"verification_expires": expires,
		"updated_at":           time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update, domain.ErrUserNotFound)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID, tokenValue string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"refresh_token": tokenValue,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, tokenValue string) (*domain.User, error) {
	filter := bson.M{"refresh_token": tokenValue}
	update := bson.M{
		"$unset": bson.M{"refresh_token": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update, domain.ErrInvalidOrExpiredToken)
}

func (r *UserRepository) SetResetToken(ctx context.Context, email, tokenValue string, expires time.Time) (*domain.User, error) {
	filter := bson.M{"email": email, "is_verified": true}
	update := bson.M{"$set": bson.M{
		"reset_token":   tokenValue,
		"reset_expires": expires,
		"updated_at":    time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update, domain.ErrUserNotFound)
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, tokenValue, passwordHash string, now time.Time) (*domain.User, error) {
	filter := bson.M{
		"reset_token":   tokenValue,
		"reset_expires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set":   bson.M{"password_hash": passwordHash, "updated_at": now},
		"$unset": bson.M{"reset_token": "", "reset_expires": ""},
	}
	return r.findOneAndUpdate(ctx, filter, update, domain.ErrInvalidOrExpiredToken)
}

func (r *UserRepository) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{
		"is_verified": false,
		"created_at":  bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("sweep unverified: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *UserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

// findOneAndUpdate runs an atomic find-and-update returning the post-update
// document, mapping a no-match to the supplied sentinel.
func (r *UserRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, missing error) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, missing
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

// EnsureIndexes creates the unique email index and the lookup indexes used by
// the token flows.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "verification_token", Value: 1}}},
		{Keys: bson.D{{Key: "reset_token", Value: 1}}},
		{Keys: bson.D{{Key: "refresh_token", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
