package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadora/threadora-backend/models"
)

// AccessStore persists the per-user AI Dresser quota records. Grants are
// single conditional updates so two near-simultaneous requests from the
// same user cannot both consume the last session.
type AccessStore struct {
	collection *mongo.Collection
}

func NewAccessStore(db *mongo.Database) *AccessStore {
	return &AccessStore{collection: db.Collection("dresser_access")}
}

// Get fetches the user's quota record, creating it on first sight
func (s *AccessStore) Get(ctx context.Context, userID string) (*models.DresserAccess, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":        userID,
			"usage_count":    0,
			"bonus_sessions": 0,
			"created_at":     now,
			"updated_at":     now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var record models.DresserAccess
	if err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ensure upserts the user's record so the conditional grants below have
// a document to match on a user's first request.
func (s *AccessStore) ensure(ctx context.Context, userID string) error {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":        userID,
			"usage_count":    0,
			"bonus_sessions": 0,
			"created_at":     now,
			"updated_at":     now,
		},
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	return err
}

// GrantDailyFree consumes the free daily session if it has not been used
// since dayStart. Returns false when today's free session is gone.
func (s *AccessStore) GrantDailyFree(ctx context.Context, userID string, dayStart time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.ensure(ctx, userID); err != nil {
		return false, err
	}

	now := time.Now()
	filter := bson.M{
		"user_id": userID,
		"$or": []bson.M{
			{"last_free_use": bson.M{"$lt": dayStart}},
			{"last_free_use": bson.M{"$exists": false}},
		},
	}
	update := bson.M{
		"$set": bson.M{"last_free_use": now, "last_use": now, "updated_at": now},
		"$inc": bson.M{"usage_count": 1},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// ConsumeBonus decrements one bonus session if any remain, and marks the
// free slot used for the day starting dayStart in the same update, so a
// bonus grant never leaves the free session spendable on top of it.
func (s *AccessStore) ConsumeBonus(ctx context.Context, userID string, dayStart time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"user_id": userID, "bonus_sessions": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"bonus_sessions": -1, "usage_count": 1},
		"$set": bson.M{"last_use": now, "updated_at": now},
		"$max": bson.M{"last_free_use": dayStart},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// CreditBonus grants extra sessions, e.g. after a paid order
func (s *AccessStore) CreditBonus(ctx context.Context, userID string, sessions int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{"bonus_sessions": sessions},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"user_id":     userID,
			"usage_count": 0,
			"created_at":  now,
		},
	}
	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
