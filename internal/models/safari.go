package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SafariStatus is the closed set of safari booking states.
type SafariStatus string

const (
	SafariPending   SafariStatus = "Pending"
	SafariConfirmed SafariStatus = "Confirmed"
	SafariCancelled SafariStatus = "Cancelled"
)

// ParseSafariStatus rejects anything outside the closed enum.
func ParseSafariStatus(s string) (SafariStatus, error) {
	switch SafariStatus(s) {
	case SafariPending, SafariConfirmed, SafariCancelled:
		return SafariStatus(s), nil
	}
	return "", fmt.Errorf("unknown safari status %q", s)
}

// DefaultSafariType is used when an entry omits the type.
const DefaultSafariType = "Standard"

// SafariBooking is a scheduled excursion slot tied to a parent booking. Its
// lifecycle is independent of the parent beyond the reference; a booking may
// have many safari bookings.
type SafariBooking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BookingID  primitive.ObjectID `bson:"booking_id" json:"bookingId"`
	SafariDate time.Time          `bson:"safari_date" json:"safariDate"`
	SafariTime string             `bson:"safari_time" json:"safariTime"` // slot label, e.g. "Morning"
	SafariType string             `bson:"safari_type" json:"safariType"`
	Status     SafariStatus       `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

// InquiryStatus tracks manual follow-up of safari leads.
type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "New"
	InquiryContacted InquiryStatus = "Contacted"
	InquiryClosed    InquiryStatus = "Closed"
)

// SafariInquiry is a standalone lead-capture record. It is not linked to any
// booking and has no lifecycle coupling to the reservation flow.
type SafariInquiry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	PreferredDate time.Time          `bson:"preferred_date" json:"preferredDate"`
	PreferredTime string             `bson:"preferred_time" json:"preferredTime"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status        InquiryStatus      `bson:"status" json:"status"`
	Source        string             `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
