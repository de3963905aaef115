package datastore

import (
	"context"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableGame(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Game)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Game)(nil)).Index("index_games_user_id").IfNotExists().Column("user_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.Game)(nil)).Index("index_games_suspicious").IfNotExists().Column("marked_as_suspicious").Exec(ctx)
	return err
}

func CreateGame(ctx context.Context, db *bun.DB, game *models.Game) (*models.Game, error) {
	_, err := db.NewInsert().Model(game).Exec(ctx)
	if err != nil {
		return nil, err
	}
	return game, nil
}

// FindActiveGame matches id + owner + still-running in one predicate; any
// mismatch looks identical to a missing row.
func FindActiveGame(ctx context.Context, db *bun.DB, gameID string, userID int64) (*models.Game, error) {
	var game models.Game
	err := db.NewSelect().
		Model(&game).
		Where("id = ?", gameID).
		Where("user_id = ?", userID).
		Where("finished_at IS NULL").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// FinishGame closes the session exactly once; the finished_at IS NULL guard
// makes a replayed finish a no-op reported through the affected count.
func FinishGame(ctx context.Context, db *bun.DB, gameID string, score int64, suspicious bool, finishedAt time.Time) (*models.Game, bool, error) {
	var game models.Game
	res, err := db.NewUpdate().
		Model(&game).
		Set("score = ?", score).
		Set("marked_as_suspicious = ?", suspicious).
		Set("on_fraud_check = ?", suspicious).
		Set("finished_at = ?", finishedAt).
		Where("id = ?", gameID).
		Where("finished_at IS NULL").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}
	affected, _ := res.RowsAffected()
	return &game, affected > 0, nil
}

func CountGamesInProgress(ctx context.Context, db *bun.DB) (int, error) {
	return db.NewSelect().
		Model((*models.Game)(nil)).
		Where("finished_at IS NULL").
		Count(ctx)
}
