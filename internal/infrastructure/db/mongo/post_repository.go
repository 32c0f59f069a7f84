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

// PostRepository implements ports.PostRepository over the posts collection.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

type mongoPost struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Title     string              `bson:"title"`
	Slug      string              `bson:"slug"`
	Content   string              `bson:"content"`
	Image     string              `bson:"image,omitempty"`
	AuthorID  primitive.ObjectID  `bson:"author_id"`
	Category  *primitive.ObjectID `bson:"category,omitempty"`
	Published bool                `bson:"published"`
	CreatedAt time.Time           `bson:"created_at"`
	UpdatedAt time.Time           `bson:"updated_at"`
}

func (mp *mongoPost) toDomain() *domain.Post {
	category := ""
	if mp.Category != nil {
		category = mp.Category.Hex()
	}
	return &domain.Post{
		ID:        mp.ID.Hex(),
		Title:     mp.Title,
		Slug:      mp.Slug,
		Content:   mp.Content,
		Image:     mp.Image,
		AuthorID:  mp.AuthorID.Hex(),
		Category:  category,
		Published: mp.Published,
		CreatedAt: mp.CreatedAt,
		UpdatedAt: mp.UpdatedAt,
	}
}

func (r *PostRepository) toDoc(post *domain.Post) (*mongoPost, error) {
	author, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	doc := &mongoPost{
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Image:     post.Image,
		AuthorID:  author,
		Published: post.Published,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if post.Category != "" {
		category, err := primitive.ObjectIDFromHex(post.Category)
		if err != nil {
			return nil, domain.ErrCategoryNotFound
		}
		doc.Category = &category
	}
	return doc, nil
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	doc, err := r.toDoc(post)
	if err != nil {
		return nil, err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	var mp mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) List(ctx context.Context, input ports.PostListInput) ([]domain.Post, int64, error) {
	filter := bson.M{}
	if input.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": input.Search, "$options": "i"}},
			bson.M{"content": bson.M{"$regex": input.Search, "$options": "i"}},
		}
	}
	if input.Category != "" {
		category, err := primitive.ObjectIDFromHex(input.Category)
		if err != nil {
			return nil, 0, domain.ErrCategoryNotFound
		}
		filter["category"] = category
	}
	if input.AuthorID != "" {
		author, err := primitive.ObjectIDFromHex(input.AuthorID)
		if err != nil {
			return nil, 0, domain.ErrUserNotFound
		}
		filter["author_id"] = author
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((input.Page - 1) * input.Limit)).
		SetLimit(int64(input.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]domain.Post, 0, input.Limit)
	for cur.Next(ctx) {
		var mp mongoPost
		if err := cur.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, *mp.toDomain())
	}
	return posts, total, cur.Err()
}

func (r *PostRepository) Update(ctx context.Context, id string, post *domain.Post) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	doc, err := r.toDoc(post)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"title":      doc.Title,
		"slug":       doc.Slug,
		"content":    doc.Content,
		"image":      doc.Image,
		"published":  doc.Published,
		"updated_at": doc.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if doc.Category != nil {
		set["category"] = *doc.Category
	} else {
		update["$unset"] = bson.M{"category": ""}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoPost
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) ClearCategory(ctx context.Context, categoryID string) error {
	oid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return domain.ErrCategoryNotFound
	}
	_, err = r.coll.UpdateMany(ctx, bson.M{"category": oid}, bson.M{"$unset": bson.M{"category": ""}})
	if err != nil {
		return fmt.Errorf("clear category: %w", err)
	}
	return nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// EnsureIndexes creates the lookup indexes used by list filters.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
