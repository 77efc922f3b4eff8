package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadora/threadora-backend/models"
)

type CartStore struct {
	collection *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{collection: db.Collection("carts")}
}

// Get fetches the owner's cart, returning an empty cart when none exists yet
func (s *CartStore) Get(ctx context.Context, ownerID string, isGuest bool) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cart models.Cart
	err := s.collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.Cart{OwnerID: ownerID, IsGuest: isGuest, Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// AddItem upserts a line item; quantities merge when the same variant is
// added twice (same product, size, color).
func (s *CartStore) AddItem(ctx context.Context, ownerID string, isGuest bool, item models.CartItem) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	item.AddedAt = now

	// Try merging into an existing line first
	mergeFilter := bson.M{
		"owner_id": ownerID,
		"items":    bson.M{"$elemMatch": bson.M{"product_id": item.ProductID, "size": item.Size, "color": item.Color}},
	}
	mergeUpdate := bson.M{
		"$inc": bson.M{"items.$.quantity": item.Quantity},
		"$set": bson.M{"updated_at": now},
	}
	result, err := s.collection.UpdateOne(ctx, mergeFilter, mergeUpdate)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// No matching line: push onto the cart, creating it if needed
	filter := bson.M{"owner_id": ownerID}
	update := bson.M{
		"$push": bson.M{"items": item},
		"$set":  bson.M{"updated_at": now, "is_guest": isGuest},
		"$setOnInsert": bson.M{
			"owner_id":   ownerID,
			"created_at": now,
		},
	}
	_, err = s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// UpdateItemQuantity sets the quantity of one line; zero removes the line
func (s *CartStore) UpdateItemQuantity(ctx context.Context, ownerID, productID, size, color string, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, ownerID, productID, size, color)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"owner_id": ownerID,
		"items":    bson.M{"$elemMatch": bson.M{"product_id": productID, "size": size, "color": color}},
	}
	update := bson.M{
		"$set": bson.M{"items.$.quantity": qty, "updated_at": time.Now()},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cart item not found")
	}
	return nil
}

// RemoveItem deletes one line from the cart
func (s *CartStore) RemoveItem(ctx context.Context, ownerID, productID, size, color string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"owner_id": ownerID}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID, "size": size, "color": color}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cart not found")
	}
	return nil
}

// Clear empties the cart after a successful order
func (s *CartStore) Clear(ctx context.Context, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now()},
	}
	_, err := s.collection.UpdateOne(ctx, bson.M{"owner_id": ownerID}, update)
	return err
}
