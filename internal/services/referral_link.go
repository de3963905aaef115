package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/loobinsk/virusq/internal/datastore"
	"github.com/loobinsk/virusq/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
)

// ServiceReferralLink manages acquisition-channel codes; consumed by ops
// tooling rather than the mini-app itself.
type ServiceReferralLink struct {
	container *do.Injector
	db        *bun.DB
}

func NewServiceReferralLink(container *do.Injector) (*ServiceReferralLink, error) {
	db, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	return &ServiceReferralLink{container, db}, nil
}

func (service *ServiceReferralLink) Create(ctx context.Context, id, name string) (*models.ReferralLink, error) {
	link := &models.ReferralLink{ID: id, Name: name, IsActive: true}

	link, err := datastore.CreateReferralLink(ctx, service.db, link)
	if isIntegrityViolation(err) {
		return nil, errorx.Wrap(err, errorx.Invalid)
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (service *ServiceReferralLink) GetAll(ctx context.Context) ([]models.ReferralLink, error) {
	return datastore.GetReferralLinks(ctx, service.db)
}

// LinkStats pairs a link with how many registrations it attributed.
type LinkStats struct {
	Link          models.ReferralLink `json:"link"`
	Registrations int                 `json:"registrations"`
}

func (service *ServiceReferralLink) GetStats(ctx context.Context, linkID string) (*LinkStats, error) {
	link, err := datastore.FindReferralLinkByID(ctx, service.db, linkID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errorx.Wrap(errors.New("referral link not found"), errorx.NotExist)
	}
	if err != nil {
		return nil, err
	}

	registrations, err := datastore.CountUsers(ctx, service.db, &link.ID)
	if err != nil {
		return nil, err
	}

	return &LinkStats{Link: *link, Registrations: registrations}, nil
}

func (service *ServiceReferralLink) SetActive(ctx context.Context, linkID string, active bool) error {
	return datastore.SetReferralLinkActive(ctx, service.db, linkID, active)
}
