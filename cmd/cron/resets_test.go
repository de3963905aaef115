package main

import (
	"testing"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewDailyResetJobUsesInjectedConfig(t *testing.T) {
	cfg := models.DefaultEconomyConfig()
	cfg.DailyGameEnergy = 7

	job := NewDailyResetJob(nil, cfg)
	assert.Same(t, cfg, job.Cfg)
	assert.Equal(t, 7, job.Cfg.DailyGameEnergy)
}
