package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a denormalized snapshot of a product inside a cart.
// We snapshot name/price/image so the cart survives catalog edits.
type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Name      string    `bson:"name" json:"name"`
	Brand     string    `bson:"brand,omitempty" json:"brand,omitempty"`
	Price     float64   `bson:"price" json:"price"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Size      string    `bson:"size,omitempty" json:"size,omitempty"`
	Color     string    `bson:"color,omitempty" json:"color,omitempty"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Cart holds the items for one owner. OwnerID is either a user ID (account
// carts) or a guest ID issued by the client (guest carts); one cart per owner.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	IsGuest   bool               `bson:"is_guest" json:"is_guest"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Total returns the exact sum of line totals.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
