package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Package is an add-on bundle priced flat per booking, optionally
// including a number of safari slots.
type Package struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	Price          float64            `bson:"price" json:"price"`
	IncludesSafari bool               `bson:"includes_safari" json:"includesSafari"`
	SafariCount    int                `bson:"safari_count" json:"safariCount"` // max safaris offered
	Features       []string           `bson:"features" json:"features"`
	IsActive       bool               `bson:"is_active" json:"isActive"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}
