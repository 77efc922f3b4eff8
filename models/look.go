package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedLookItem mirrors a dresser look item at save time
type SavedLookItem struct {
	ProductID   string  `bson:"product_id" json:"product_id"`
	Name        string  `bson:"name" json:"name"`
	Brand       string  `bson:"brand,omitempty" json:"brand,omitempty"`
	Category    string  `bson:"category" json:"category"`
	Price       float64 `bson:"price" json:"price"`
	Image       string  `bson:"image,omitempty" json:"image,omitempty"`
	StylingNote string  `bson:"styling_note,omitempty" json:"styling_note,omitempty"`
}

// SavedLook is a wishlist copy of a recommended look. Saving copies the
// look; the recommendation itself is never mutated.
type SavedLook struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	SessionID   string             `bson:"session_id" json:"session_id"`
	LookNumber  int                `bson:"look_number" json:"look_number"`
	LookName    string             `bson:"look_name" json:"look_name"`
	Description string             `bson:"look_description,omitempty" json:"look_description,omitempty"`
	Items       []SavedLookItem    `bson:"items" json:"items"`
	TotalPrice  float64            `bson:"total_price" json:"total_price"`
	StyleTip    string             `bson:"style_tip,omitempty" json:"style_tip,omitempty"`
	// RenderedImage is the S3 key of the Gemini visualization, if generated
	RenderedImage string    `bson:"rendered_image,omitempty" json:"rendered_image,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	IsDeleted     bool      `bson:"is_deleted" json:"-"`
}
