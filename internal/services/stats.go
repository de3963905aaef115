package services

import (
	"context"

	"github.com/loobinsk/virusq/internal/datastore"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceStats struct {
	container *do.Injector
	db        *bun.DB
}

func NewServiceStats(container *do.Injector) (*ServiceStats, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	return &ServiceStats{container, db}, nil
}

type StatsSnapshot struct {
	TotalUsers      int `json:"total_users"`
	ActiveUsers     int `json:"active_users"`
	GamesInProgress int `json:"games_in_progress"`
}

func (service *ServiceStats) Snapshot(ctx context.Context) (*StatsSnapshot, error) {
	total, err := datastore.CountUsers(ctx, service.db, nil)
	if err != nil {
		return nil, err
	}

	active, err := datastore.CountActiveUsers(ctx, service.db)
	if err != nil {
		return nil, err
	}

	playing, err := datastore.CountGamesInProgress(ctx, service.db)
	if err != nil {
		return nil, err
	}

	return &StatsSnapshot{TotalUsers: total, ActiveUsers: active, GamesInProgress: playing}, nil
}
