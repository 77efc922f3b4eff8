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

// ProductFilter narrows a catalog listing
type ProductFilter struct {
	Category string
	Gender   string
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

type ProductStore struct {
	collection *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{collection: db.Collection("products")}
}

// Create inserts a new product
func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	product.IsDeleted = false

	_, err := s.collection.InsertOne(ctx, product)
	return err
}

// FindByID fetches one product by hex ID
func (s *ProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID")
	}

	var product models.Product
	filter := bson.M{"_id": objID, "is_deleted": false}
	if err := s.collection.FindOne(ctx, filter).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("product not found")
		}
		return nil, err
	}
	return &product, nil
}

// Find lists products with pagination and filters
func (s *ProductStore) Find(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"is_deleted": false}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Gender != "" {
		// unisex and untagged products show up for every gender
		filter["$or"] = []bson.M{
			{"gender": f.Gender},
			{"gender": "unisex"},
			{"gender": bson.M{"$exists": false}},
			{"gender": ""},
		}
	}
	if f.Search != "" {
		filter["name"] = bson.M{"$regex": f.Search, "$options": "i"}
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find()
	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	findOptions.SetSkip(int64((page - 1) * pageSize))
	findOptions.SetLimit(int64(pageSize))

	sortField := "created_at"
	if f.SortBy != "" {
		sortField = f.SortBy
	}
	sortOrder := -1
	if !f.SortDesc && f.SortBy != "" {
		sortOrder = 1
	}
	findOptions.SetSort(bson.D{{Key: sortField, Value: sortOrder}})

	cursor, err := s.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindAllAvailable returns the full sellable catalog snapshot for the dresser engine
func (s *ProductStore) FindAllAvailable(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"is_deleted": false,
		"in_stock":   bson.M{"$ne": false},
	}
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock atomically reduces tracked stock, refusing to oversell.
// Products without a stock_qty field are untracked and always succeed.
func (s *ProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product ID")
	}

	filter := bson.M{
		"_id":        objID,
		"is_deleted": false,
		"$or": []bson.M{
			{"stock_qty": bson.M{"$exists": false}},
			{"stock_qty": bson.M{"$gte": qty}},
		},
	}
	// Pipeline update so the untracked case stays inside the same atomic
	// operation: a plain $inc would materialize stock_qty on products
	// that never tracked it.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"stock_qty": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{bson.M{"$type": "$stock_qty"}, "missing"}},
				"$$REMOVE",
				bson.M{"$subtract": bson.A{"$stock_qty", qty}},
			}},
			"updated_at": time.Now(),
		}}},
	}
	result, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("insufficient stock")
	}
	return nil
}
