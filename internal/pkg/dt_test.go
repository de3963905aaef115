package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameDayUTC(t *testing.T) {
	a := time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC)
	b := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	assert.True(t, SameDayUTC(a, b))

	c := time.Date(2025, 3, 11, 0, 0, 1, 0, time.UTC)
	assert.False(t, SameDayUTC(b, c))

	// same instant expressed in different zones
	msk := time.FixedZone("MSK", 3*60*60)
	d := time.Date(2025, 3, 11, 1, 30, 0, 0, msk) // 22:30 UTC on the 10th
	assert.True(t, SameDayUTC(a, d))
}

func TestDaysApartUTC(t *testing.T) {
	a := time.Date(2025, 3, 10, 23, 50, 0, 0, time.UTC)
	b := time.Date(2025, 3, 11, 0, 10, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysApartUTC(a, b))
	assert.Equal(t, -1, DaysApartUTC(b, a))
	assert.Equal(t, 0, DaysApartUTC(a, a))

	c := time.Date(2025, 3, 13, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysApartUTC(a, c))
}
