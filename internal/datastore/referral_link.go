package datastore

import (
	"context"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableReferralLink(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.ReferralLink)(nil)).IfNotExists().Exec(ctx)
	return err
}

func FindReferralLinkByID(ctx context.Context, db *bun.DB, linkID string) (*models.ReferralLink, error) {
	var link models.ReferralLink
	err := db.NewSelect().Model(&link).Where("id = ?", linkID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func CreateReferralLink(ctx context.Context, db *bun.DB, link *models.ReferralLink) (*models.ReferralLink, error) {
	_, err := db.NewInsert().Model(link).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return link, nil
}

func GetReferralLinks(ctx context.Context, db *bun.DB) ([]models.ReferralLink, error) {
	var links []models.ReferralLink
	err := db.NewSelect().Model(&links).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return links, nil
}

func SetReferralLinkActive(ctx context.Context, db *bun.DB, linkID string, active bool) error {
	_, err := db.NewUpdate().
		Model((*models.ReferralLink)(nil)).
		Set("is_active = ?", active).
		Where("id = ?", linkID).
		Exec(ctx)
	return err
}
