package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories used across the catalog
const (
	CategoryClothes     = "clothes"
	CategoryAccessories = "accessories"
	CategoryShoes       = "shoes"
)

// Product represents a catalog item
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Brand         string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Category      string             `bson:"category" json:"category"` // clothes, accessories, shoes
	Subcategory   string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"original_price,omitempty" json:"original_price,omitempty"`
	Images        []string           `bson:"images,omitempty" json:"images,omitempty"` // S3 keys in DB, presigned URLs in responses
	Colors        []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	Sizes         []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Gender        string             `bson:"gender,omitempty" json:"gender,omitempty"` // male, female, unisex
	Tags          []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	InStock       *bool              `bson:"in_stock,omitempty" json:"in_stock,omitempty"` // nil means in stock
	StockQty      *int               `bson:"stock_qty,omitempty" json:"stock_qty,omitempty"`
	Occasions     []string           `bson:"occasions,omitempty" json:"occasions,omitempty"`
	Style         []string           `bson:"style,omitempty" json:"style,omitempty"`
	SourceURL     string             `bson:"source_url,omitempty" json:"source_url,omitempty"` // set for imported products
	IsDeleted     bool               `bson:"is_deleted" json:"-"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// Available reports whether the product can be sold or recommended.
// A nil InStock counts as in stock, a nil StockQty as untracked stock.
func (p *Product) Available() bool {
	if p.InStock != nil && !*p.InStock {
		return false
	}
	if p.StockQty != nil && *p.StockQty <= 0 {
		return false
	}
	return true
}
