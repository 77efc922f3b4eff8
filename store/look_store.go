package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadora/threadora-backend/models"
)

type LookStore struct {
	collection *mongo.Collection
}

func NewLookStore(db *mongo.Database) *LookStore {
	return &LookStore{collection: db.Collection("saved_looks")}
}

// Create saves a wishlist copy of a look
func (s *LookStore) Create(ctx context.Context, look *models.SavedLook) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	look.ID = primitive.NewObjectID()
	look.CreatedAt = time.Now()
	look.IsDeleted = false

	_, err := s.collection.InsertOne(ctx, look)
	return err
}

// FindByID fetches one saved look, scoped to its owner
func (s *LookStore) FindByID(ctx context.Context, id, userID string) (*models.SavedLook, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid look ID")
	}

	var look models.SavedLook
	filter := bson.M{"_id": objID, "user_id": userID, "is_deleted": false}
	if err := s.collection.FindOne(ctx, filter).Decode(&look); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("look not found")
		}
		return nil, err
	}
	return &look, nil
}

// FindByUser lists a user's saved looks newest first
func (s *LookStore) FindByUser(ctx context.Context, userID string, page, limit int) ([]models.SavedLook, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "is_deleted": false}
	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	findOptions.SetSkip(int64((page - 1) * limit))
	findOptions.SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var looks []models.SavedLook
	if err := cursor.All(ctx, &looks); err != nil {
		return nil, 0, err
	}
	return looks, total, nil
}

// SetRenderedImage stores the S3 key of a generated look visualization
func (s *LookStore) SetRenderedImage(ctx context.Context, id primitive.ObjectID, objectKey string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"rendered_image": objectKey}}
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// SoftDelete hides a saved look
func (s *LookStore) SoftDelete(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid look ID")
	}

	filter := bson.M{"_id": objID, "user_id": userID, "is_deleted": false}
	update := bson.M{"$set": bson.M{"is_deleted": true}}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("look not found")
	}
	return nil
}
