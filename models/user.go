package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered shopper
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password,omitempty" json:"-"` // Password is not returned in JSON; empty for OAuth accounts
	Gender            string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Status            string             `bson:"status" json:"status"` // pending, verified, active
	VerificationToken string             `bson:"verification_token,omitempty" json:"-"`
	OTP               string             `bson:"otp,omitempty" json:"-"`
	GoogleID          string             `bson:"google_id,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
