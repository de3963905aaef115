package services

import (
	"testing"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestIsScoreSuspicious(t *testing.T) {
	service := &ServiceGame{cfg: models.DefaultEconomyConfig()}
	startedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		score      int64
		played     time.Duration
		suspicious bool
	}{
		{
			// 551 points clears three levels (87+145+203=435); the
			// per-level floor of 6s demands at least 18s
			name:       "three levels faster than the floor",
			score:      551,
			played:     10 * time.Second,
			suspicious: true,
		},
		{
			name:       "no level cleared at honest pace",
			score:      50,
			played:     60 * time.Second,
			suspicious: false,
		},
		{
			name:       "three levels at honest pace",
			score:      551,
			played:     90 * time.Second,
			suspicious: false,
		},
		{
			// one level in 6.5s truncates to 6 played seconds, which the
			// 6s-per-level floor still catches
			name:       "fractional seconds truncate to whole",
			score:      100,
			played:     6*time.Second + 500*time.Millisecond,
			suspicious: true,
		},
		{
			name:       "one level just past the floor",
			score:      100,
			played:     7 * time.Second,
			suspicious: false,
		},
		{
			// 87+...+551 = 2871 clears all nine levels
			name:       "whole ladder cleared",
			score:      2871,
			played:     time.Hour,
			suspicious: true,
		},
		{
			name:       "eight levels at honest pace",
			score:      2320,
			played:     20 * time.Minute,
			suspicious: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.IsScoreSuspicious(tt.score, startedAt, startedAt.Add(tt.played))
			assert.Equal(t, tt.suspicious, got)
		})
	}
}
