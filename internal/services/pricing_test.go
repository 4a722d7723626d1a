package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ayush99566-sketch/village-machaan-backend/internal/models"
)

func TestNights(t *testing.T) {
	checkIn := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, Nights(checkIn, checkOut))

	// Time-of-day is ignored: a late check-in and early check-out still
	// count whole calendar days.
	lateIn := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)
	earlyOut := time.Date(2024, 6, 4, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, Nights(lateIn, earlyOut))

	assert.Equal(t, 0, Nights(checkIn, checkIn))
	assert.Equal(t, -3, Nights(checkOut, checkIn))
}

func TestPriceStay(t *testing.T) {
	cottage := &models.Cottage{BasePricePerNight: 5000}
	pkg := &models.Package{Price: 2500}
	checkIn := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 6, 4, 11, 0, 0, 0, time.UTC)

	q := PriceStay(cottage, pkg, checkIn, checkOut)
	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 5000.0, q.CostPerNight)
	assert.Equal(t, 15000.0, q.RoomCost)
	assert.Equal(t, 2500.0, q.PackageCost)
	assert.Equal(t, 17500.0, q.TotalCost)

	// Package cost is flat per booking, not per night.
	longer := PriceStay(cottage, pkg, checkIn, checkOut.AddDate(0, 0, 4))
	assert.Equal(t, q.PackageCost, longer.PackageCost)
	assert.Equal(t, longer.RoomCost+longer.PackageCost, longer.TotalCost)
}

func TestPriceStay_SingleNight(t *testing.T) {
	cottage := &models.Cottage{BasePricePerNight: 7500}
	pkg := &models.Package{Price: 0}
	q := PriceStay(cottage, pkg,
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, q.Nights)
	assert.Equal(t, 7500.0, q.TotalCost)
}
