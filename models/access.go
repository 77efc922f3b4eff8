package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DresserAccess is the per-user quota record for the AI Dresser.
// One free session per local calendar day plus a bonus-session counter;
// the daily reset is implicit, computed by comparing LastFreeUse to today.
type DresserAccess struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID        string             `bson:"user_id" json:"user_id"`
	UsageCount    int                `bson:"usage_count" json:"usage_count"`
	BonusSessions int                `bson:"bonus_sessions" json:"bonus_sessions"`
	LastFreeUse   time.Time          `bson:"last_free_use,omitempty" json:"last_free_use,omitempty"`
	LastUse       time.Time          `bson:"last_use,omitempty" json:"last_use,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"-"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"-"`
}
