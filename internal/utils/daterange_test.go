package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2024, 6, 1, 15, 42, 7, 123, time.FixedZone("X", 3600))
	got := NormalizeDate(in)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestDateRange_Nights(t *testing.T) {
	checkIn := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)
	r := NewDateRange(checkIn, checkOut)
	assert.Equal(t, 3, r.Nights())

	// Same day and inverted ranges are non-positive.
	assert.Equal(t, 0, NewDateRange(checkIn, checkIn).Nights())
	assert.Equal(t, -3, NewDateRange(checkOut, checkIn).Nights())
}

func TestDateRange_Days(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC),
	)
	days := r.Days()
	require.Len(t, days, 3)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), days[1])
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), days[2])

	// End-exclusive: check-out day is never included.
	for _, d := range days {
		assert.True(t, d.Before(r.End))
	}

	assert.Nil(t, NewDateRange(r.End, r.Start).Days())
}

func TestDateRange_EachStopsOnError(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	)
	boom := errors.New("boom")
	visited := 0
	err := r.Each(func(day time.Time) error {
		visited++
		if visited == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, visited)
}

func TestDateRange_EachIsRestartable(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	)
	first, second := 0, 0
	require.NoError(t, r.Each(func(time.Time) error { first++; return nil }))
	require.NoError(t, r.Each(func(time.Time) error { second++; return nil }))
	assert.Equal(t, first, second)
}
