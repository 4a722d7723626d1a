package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingCompleted BookingStatus = "Completed"
)

// ParseBookingStatus rejects anything outside the closed enum. Free-form
// status strings are not accepted at the boundary.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// bookingTransitions encodes the allowed status moves. Self-transitions are
// handled separately (accepted as idempotent no-ops).
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

// CanTransition reports whether a booking may move from one status to
// another. A transition to the current status is always allowed so that
// repeated updates stay idempotent.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	if s == to {
		return true
	}
	for _, next := range bookingTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentStatus tracks the payment side of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

// CustomerInfo is the contact block captured with a booking.
type CustomerInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

// Booking is the root entity of a reservation: cottage, package, date range
// and guest details. AvailabilityRecords and SafariBookings reference it by
// id; status transitions are the only mutation after creation.
type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Reference       string             `bson:"reference" json:"reference"`
	CottageID       primitive.ObjectID `bson:"cottage_id" json:"cottageId"`
	PackageID       primitive.ObjectID `bson:"package_id" json:"packageId"`
	CheckIn         time.Time          `bson:"check_in" json:"checkInDate"`
	CheckOut        time.Time          `bson:"check_out" json:"checkOutDate"` // exclusive, strictly after CheckIn
	Adults          int                `bson:"adults" json:"adults"`
	Children        int                `bson:"children" json:"children"`
	TotalCost       float64            `bson:"total_cost" json:"totalCost"`
	Status          BookingStatus      `bson:"status" json:"status"`
	Customer        CustomerInfo       `bson:"customer" json:"customerInfo"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"paymentStatus"`
	PaymentID       string             `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	SpecialRequests string             `bson:"special_requests,omitempty" json:"specialRequests,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}
