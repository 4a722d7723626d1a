package services

import (
	"time"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
	"github.com/ayush99566-sketch/village-machaan-backend/internal/utils"
)

// Quote is the cost breakdown for a prospective stay. Pure data, no I/O.
type Quote struct {
	Nights       int     `json:"nights"`
	CostPerNight float64 `json:"costPerNight"`
	RoomCost     float64 `json:"roomCost"`
	PackageCost  float64 `json:"packageCost"`
	TotalCost    float64 `json:"totalCost"`
}

// Nights counts whole days between check-in and check-out after both are
// normalized to midnight UTC. A non-positive result signals an invalid range
// to the caller; validating it is the caller's responsibility.
func Nights(checkIn, checkOut time.Time) int {
	return utils.NewDateRange(checkIn, checkOut).Nights()
}

// PriceStay computes the full quote for a cottage, package and date range.
// Room cost is nightly, package cost is flat per booking.
func PriceStay(cottage *models.Cottage, pkg *models.Package, checkIn, checkOut time.Time) Quote {
	nights := Nights(checkIn, checkOut)
	roomCost := cottage.BasePricePerNight * float64(nights)
	return Quote{
		Nights:       nights,
		CostPerNight: cottage.BasePricePerNight,
		RoomCost:     roomCost,
		PackageCost:  pkg.Price,
		TotalCost:    roomCost + pkg.Price,
	}
}
