package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cottage represents a rentable unit with nightly pricing and occupancy limits.
type Cottage struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	Description       string             `bson:"description" json:"description"`
	MaxAdults         int                `bson:"max_adults" json:"maxAdults"`
	MaxChildren       int                `bson:"max_children" json:"maxChildren"`
	BasePricePerNight float64            `bson:"base_price_per_night" json:"basePricePerNight"`
	Amenities         []string           `bson:"amenities" json:"amenities"` // display order matters
	IsActive          bool               `bson:"is_active" json:"isActive"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updatedAt"`
}
