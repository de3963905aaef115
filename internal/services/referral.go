package services

import (
	"context"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceReferral struct {
	container *do.Injector
	db        *bun.DB
	cfg       *models.EconomyConfig
}

func NewServiceReferral(container *do.Injector) (*ServiceReferral, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cfg, err := do.Invoke[*models.EconomyConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReferral{container, db, cfg}, nil
}

// GetStats aggregates the downline per level. Levels with no referrals are
// still present so the client always renders the full depth.
func (service *ServiceReferral) GetStats(ctx context.Context, userID int64) ([]models.ReferralLevelStats, error) {
	rows, err := datastore.GetReferralsStats(ctx, service.db, service.cfg, userID)
	if err != nil {
		return nil, err
	}

	stats := make([]models.ReferralLevelStats, service.cfg.ReferralMaxLevel)
	for i := range stats {
		stats[i].Level = i + 1
	}
	for _, row := range rows {
		if row.Level >= 1 && row.Level <= service.cfg.ReferralMaxLevel {
			stats[row.Level-1] = row
		}
	}

	return stats, nil
}

// ClaimProfit moves the accumulated referral balance onto the main balance
// in one statement, so nothing is lost between read and write.
func (service *ServiceReferral) ClaimProfit(ctx context.Context, userID int64) (*models.User, error) {
	return datastore.ClaimReferralsProfit(ctx, service.db, userID)
}
