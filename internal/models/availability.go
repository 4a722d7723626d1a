package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AvailabilityRecord marks one calendar day of one cottage as booked. A
// record only exists for reserved days; free days have no row. The
// availability collection carries a unique index on (cottage_id, date) so a
// second insert for the same day fails with a duplicate key error instead of
// silently double-booking.
type AvailabilityRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CottageID   primitive.ObjectID `bson:"cottage_id" json:"cottageId"`
	Date        time.Time          `bson:"date" json:"date"` // midnight UTC
	IsAvailable bool               `bson:"is_available" json:"isAvailable"`
	BookingID   primitive.ObjectID `bson:"booking_id" json:"bookingId"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
