package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// BlacklistRepository is the durable, append-only record of revoked refresh
// tokens. Double-adds of the same token are treated as success.
type BlacklistRepository struct {
	coll *mongo.Collection
}

func NewBlacklistRepository(db *mongo.Database) *BlacklistRepository {
	return &BlacklistRepository{coll: db.Collection(blacklistCollection)}
}

type mongoBlacklistEntry struct {
	Token         string    `bson:"token"`
	BlacklistedAt time.Time `bson:"blacklisted_at"`
}

func (r *BlacklistRepository) Add(ctx context.Context, entry domain.BlacklistEntry) error {
	_, err := r.coll.InsertOne(ctx, mongoBlacklistEntry{
		Token:         entry.Token,
		BlacklistedAt: entry.BlacklistedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("blacklist add: %w", err)
	}
	return nil
}

func (r *BlacklistRepository) Contains(ctx context.Context, tokenValue string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"token": tokenValue}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("blacklist check: %w", err)
	}
	return true, nil
}

// blacklistRetention must exceed any configured refresh token lifetime so an
// entry never expires before the token it revokes.
const blacklistRetention = 30 * 24 * time.Hour

// EnsureIndexes creates the unique token index and a TTL index that expires
// entries once the revoked token itself could no longer verify.
func (r *BlacklistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "blacklisted_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(blacklistRetention / time.Second)),
		},
	})
	return err
}
