package services

import (
	"context"
	"time"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceFarming struct {
	container *do.Injector
	db        *bun.DB
	cfg       *models.EconomyConfig
}

func NewServiceFarming(container *do.Injector) (*ServiceFarming, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cfg, err := do.Invoke[*models.EconomyConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceFarming{container, db, cfg}, nil
}

// Start flips the user into IN_PROGRESS. The transition is a single
// conditional update, so two concurrent starts cannot both win.
func (service *ServiceFarming) Start(ctx context.Context, userID int64) (*models.User, error) {
	user, ok, err := datastore.StartFarming(ctx, service.db, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Wrap(ErrActionNotAllowed, errorx.Invalid)
	}
	return user, nil
}

// Claim settles a finished farming cycle: the full session profit lands on
// the balance and the upline commissions fan out from the same amount.
func (service *ServiceFarming) Claim(ctx context.Context, userID int64) (*models.User, error) {
	user, ok, err := datastore.ClaimFarming(ctx, service.db, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errorx.Wrap(ErrActionNotAllowed, errorx.Invalid)
	}

	profit := user.FarmingTotalProfit()
	if err := datastore.RewardUserReferrers(ctx, service.db, service.cfg, userID, profit); err != nil {
		return nil, err
	}

	return user, nil
}
