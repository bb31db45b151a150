package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)
	start, end := ComputeWindow(now, 365)

	assert.Equal(t, now, end)
	assert.Equal(t, time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC), start)
}

func TestComputeWindowTracksNow(t *testing.T) {
	// The window must move with the clock, not be cached.
	first := time.Date(2025, 1, 1, 5, 0, 0, 0, time.UTC)
	second := first.Add(12 * time.Hour)

	startFirst, _ := ComputeWindow(first, 365)
	startSecond, _ := ComputeWindow(second, 365)

	assert.Equal(t, 12*time.Hour, startSecond.Sub(startFirst))
}

func TestComputeWindowCustomDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	start, end := ComputeWindow(now, 30)

	assert.Equal(t, now, end)
	assert.Equal(t, now.AddDate(0, 0, -30), start)
}
