package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"frendora/internal/apperrors"
	"frendora/internal/models"
)

// MongoPostRepository is a MongoDB implementation of PostRepository.
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository creates a new instance of MongoPostRepository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		coll: db.Collection("posts"),
	}
}

// Create inserts a new post.
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetAll retrieves all posts.
func (r *MongoPostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// GetByID retrieves a post by its hex ObjectID.
func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidIdentifier, id)
	}
	var post models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: post %s", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// Update replaces the stored post document.
func (r *MongoPostRepository) Update(ctx context.Context, post *models.Post) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: post %s", apperrors.ErrNotFound, post.ID.Hex())
	}
	return nil
}

// Delete removes a post by its hex ObjectID.
func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidIdentifier, id)
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: post %s", apperrors.ErrNotFound, id)
	}
	return nil
}

// Search matches the query case-insensitively against title and author.
func (r *MongoPostRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"author": bson.M{"$regex": query, "$options": "i"}},
	}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}
