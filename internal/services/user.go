package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"
	"github.com/loobinsk/virusq/internal/pkg/caching"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type ServiceUser struct {
	container *do.Injector
	db        *bun.DB
	cache     caching.Cache
	cfg       *models.EconomyConfig
}

func NewServiceUser(container *do.Injector) (*ServiceUser, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	cfg, err := do.Invoke[*models.EconomyConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceUser{container, db, cache, cfg}, nil
}

type RegistrationInput struct {
	ID        int64               `json:"id"`
	FirstName string              `json:"first_name"`
	LastName  *string             `json:"last_name"`
	Username  *string             `json:"username"`
	Language  models.UserLanguage `json:"language"`
	IsPremium bool                `json:"is_premium"`
	Source    *string             `json:"source"`
}

func (service *ServiceUser) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := datastore.FindUserByID(ctx, service.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("user not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates the account and settles referral attribution. A numeric
// source is a referrer user id: the referrer is credited the signup bonus
// and the same amount is frozen onto the new account for later aggregate
// reporting. A non-numeric source must match an active referral link or it
// is dropped.
func (service *ServiceUser) Register(ctx context.Context, input *RegistrationInput) (*models.User, error) {
	var reward int64
	var referrerID *int64

	if input.Source != nil {
		if id, convErr := strconv.ParseInt(*input.Source, 10, 64); convErr == nil {
			referrer, err := datastore.FindUserByID(ctx, service.db, id)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				input.Source = nil
			case err != nil:
				return nil, err
			default:
				reward = service.cfg.ReferralBonus
				if input.IsPremium {
					reward = service.cfg.PremiumReferralBonus
				}
				referrerID = &referrer.ID
			}
		} else {
			link, err := service.findReferralLink(ctx, *input.Source)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				input.Source = nil
			case err != nil:
				return nil, err
			case !link.IsActive:
				input.Source = nil
			}
		}
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        input.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Language:  input.Language,
		Source:    input.Source,

		ReferralRegistrationBonus: reward,
		Balance:                   reward,

		GameEnergy:            service.cfg.DailyGameEnergy,
		FarmingDurationHours:  service.cfg.FarmingDurationHours,
		FarmingHourMiningRate: service.cfg.FarmingHourMiningRate,

		CreatedAt:      now,
		LastActivityAt: now,
	}

	user, err := datastore.RegisterUser(ctx, service.db, user, referrerID, reward)
	if isIntegrityViolation(err) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindOrCreateUser backs the login flow: a first login registers the account
// with the start-param as referral source.
func (service *ServiceUser) FindOrCreateUser(ctx context.Context, auth *models.UserFromAuth) (*models.User, error) {
	user, err := datastore.FindUserByID(ctx, service.db, auth.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if errors.Is(err, sql.ErrNoRows) {
		input := &RegistrationInput{
			ID:        auth.ID,
			FirstName: auth.FirstName,
			Language:  models.UserLanguageEN,
			IsPremium: auth.IsPremium,
		}
		if auth.LanguageCode == "ru" {
			input.Language = models.UserLanguageRU
		}
		if auth.LastName != "" {
			input.LastName = &auth.LastName
		}
		if auth.Username != "" {
			input.Username = &auth.Username
		}
		if auth.StartParam != "" {
			source := auth.StartParam
			input.Source = &source
		}

		user, err = service.Register(ctx, input)
		if err != nil {
			return nil, err
		}
	}

	if err := datastore.MarkWebappUsed(ctx, service.db, user.ID); err != nil {
		return nil, err
	}

	return user, nil
}

func (service *ServiceUser) RenewLastActivity(ctx context.Context, userID int64) error {
	return datastore.RenewLastActivity(ctx, service.db, userID)
}

func (service *ServiceUser) SetInactive(ctx context.Context, userID int64) (*models.User, error) {
	now := time.Now().UTC()
	user, err := datastore.SetBotBlocked(ctx, service.db, userID, &now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("user not found"), errorx.NotExist)
	}
	return user, err
}

func (service *ServiceUser) SetActive(ctx context.Context, userID int64) (*models.User, error) {
	user, err := datastore.SetBotBlocked(ctx, service.db, userID, nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("user not found"), errorx.NotExist)
	}
	return user, err
}

func (service *ServiceUser) findReferralLink(ctx context.Context, linkID string) (*models.ReferralLink, error) {
	callback := func() (*models.ReferralLink, error) {
		return datastore.FindReferralLinkByID(ctx, service.db, linkID)
	}

	return caching.UseCache(ctx, service.cache, DBKeyReferralLink(linkID), CACHE_TTL_5_MINS, callback)
}

// isIntegrityViolation matches Postgres unique-constraint breaches
// (SQLSTATE class 23).
func isIntegrityViolation(err error) bool {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.IntegrityViolation()
}
