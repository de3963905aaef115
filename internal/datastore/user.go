package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/loobinsk/virusq/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_users_source").IfNotExists().Column("source").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_users_balance").IfNotExists().Column("balance").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_users_daily_profit").IfNotExists().Column("daily_overall_profit").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.User)(nil)).Index("index_users_highscores").IfNotExists().Column("game_daily_highscore", "game_alltime_highscore").Exec(ctx)
	return err
}

func FindUserByID(ctx context.Context, db *bun.DB, userID int64) (*models.User, error) {
	var user models.User
	err := db.NewSelect().Model(&user).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RegisterUser inserts the account and credits the referrer's signup bonus
// in one transaction. The insert goes first, so a duplicate id from a
// retried registration rolls the whole thing back and no bonus is ever paid
// for an account that was never created.
func RegisterUser(ctx context.Context, db *bun.DB, user *models.User, referrerID *int64, reward int64) (*models.User, error) {
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return err
		}
		if referrerID == nil || reward <= 0 {
			return nil
		}
		_, err := tx.NewUpdate().
			Model((*models.User)(nil)).
			Set("referral_balance = referral_balance + ?", reward).
			Where("id = ?", *referrerID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func RenewLastActivity(ctx context.Context, db *bun.DB, userID int64) error {
	_, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("last_activity_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func MarkWebappUsed(ctx context.Context, db *bun.DB, userID int64) error {
	_, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("used_webapp = TRUE").
		Where("id = ?", userID).
		Where("used_webapp = FALSE").
		Exec(ctx)
	return err
}

func SetBotBlocked(ctx context.Context, db *bun.DB, userID int64, blockedAt *time.Time) (*models.User, error) {
	var user models.User
	res, err := db.NewUpdate().
		Model(&user).
		Set("bot_blocked_at = ?", blockedAt).
		Where("id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

// StartFarming flips NOT_STARTED -> IN_PROGRESS. The farming_started_at IS
// NULL predicate is the whole state machine guard; zero rows affected means
// the transition was illegal.
func StartFarming(ctx context.Context, db *bun.DB, userID int64, now time.Time) (*models.User, bool, error) {
	var user models.User
	res, err := db.NewUpdate().
		Model(&user).
		Set("farming_started_at = ?", now).
		Where("id = ?", userID).
		Where("farming_started_at IS NULL").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}
	affected, _ := res.RowsAffected()
	return &user, affected > 0, nil
}

// ClaimFarming credits duration*rate and clears the farming slot in one
// conditional statement, so concurrent claims cannot double-pay.
func ClaimFarming(ctx context.Context, db *bun.DB, userID int64, now time.Time) (*models.User, bool, error) {
	var user models.User
	res, err := db.NewUpdate().
		Model(&user).
		Set("balance = balance + farming_duration_hours * farming_hour_mining_rate").
		Set("daily_overall_profit = daily_overall_profit + farming_duration_hours * farming_hour_mining_rate").
		Set("farming_started_at = NULL").
		Where("id = ?", userID).
		Where("farming_started_at IS NOT NULL").
		Where("farming_started_at + make_interval(hours => farming_duration_hours) <= ?", now).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}
	affected, _ := res.RowsAffected()
	return &user, affected > 0, nil
}

// DecrementGameEnergy spends one energy point; zero rows affected means the
// tank was already empty.
func DecrementGameEnergy(ctx context.Context, db *bun.DB, userID int64) (*models.User, bool, error) {
	var user models.User
	res, err := db.NewUpdate().
		Model(&user).
		Set("game_energy = game_energy - 1").
		Where("id = ?", userID).
		Where("game_energy > 0").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}
	affected, _ := res.RowsAffected()
	return &user, affected > 0, nil
}

// CreditGameScore pays the score out and raises whichever highscores it
// beats. GREATEST keeps the statement race-free: two concurrent finishes both
// settle on the larger value.
func CreditGameScore(ctx context.Context, db *bun.DB, userID int64, score int64) (*models.User, error) {
	var user models.User
	_, err := db.NewUpdate().
		Model(&user).
		Set("balance = balance + ?", score).
		Set("daily_overall_profit = daily_overall_profit + ?", score).
		Set("game_daily_highscore = GREATEST(game_daily_highscore, ?)", score).
		Set("game_alltime_highscore = GREATEST(game_alltime_highscore, ?)", score).
		Where("id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ReferralCommission is the payout an upline ancestor at the given level
// earns from a profit event: the level's basis points applied to the profit,
// floored by integer division. Levels outside the configured ladder earn
// nothing.
func ReferralCommission(cfg *models.EconomyConfig, level int, profit int64) int64 {
	bp, ok := cfg.ReferralPercentBP[level]
	if !ok {
		return 0
	}
	return profit * bp / 10000
}

// RewardUserReferrers walks the referral chain upward through source and
// credits every ancestor its level commission in a single set-based update.
// The per-level amounts are computed in Go and baked into the CASE arms.
func RewardUserReferrers(ctx context.Context, db *bun.DB, cfg *models.EconomyConfig, userID int64, initialProfit int64) error {
	if initialProfit <= 0 {
		return nil
	}

	caseArms := make([]string, 0, cfg.ReferralMaxLevel)
	for level := 1; level <= cfg.ReferralMaxLevel; level++ {
		caseArms = append(caseArms, fmt.Sprintf("WHEN %d THEN %d", level, ReferralCommission(cfg, level, initialProfit)))
	}

	query := fmt.Sprintf(`
		WITH RECURSIVE tree AS (
			SELECT id, source, 0 AS level
			FROM users
			WHERE id = ?
			UNION ALL
			SELECT u.id, u.source, tree.level + 1
			FROM users u
			JOIN tree ON CAST(u.id AS TEXT) = tree.source
			WHERE tree.level + 1 <= ?
		)
		UPDATE users
		SET referral_balance = referral_balance + CASE tree.level %s END
		FROM tree
		WHERE users.id = tree.id AND tree.level > 0`,
		strings.Join(caseArms, " "),
	)

	_, err := db.NewRaw(query, userID, cfg.ReferralMaxLevel).Exec(ctx)
	return err
}

// GetReferralsStats walks the referral tree downward and aggregates direct
// and indirect referrals per level. Missing levels are zero-filled by the
// service layer.
func GetReferralsStats(ctx context.Context, db *bun.DB, cfg *models.EconomyConfig, userID int64) ([]models.ReferralLevelStats, error) {
	var stats []models.ReferralLevelStats
	err := db.NewRaw(`
		WITH RECURSIVE tree AS (
			SELECT id, source, referral_registration_bonus, 0 AS level
			FROM users
			WHERE id = ?
			UNION ALL
			SELECT u.id, u.source, u.referral_registration_bonus, tree.level + 1
			FROM users u
			JOIN tree ON u.source = CAST(tree.id AS TEXT)
			WHERE tree.level + 1 <= ?
		)
		SELECT level,
			COUNT(id) AS referrals_amount,
			COALESCE(SUM(referral_registration_bonus), 0) AS referrals_profit
		FROM tree
		WHERE level > 0
		GROUP BY level
		ORDER BY level`,
		userID, cfg.ReferralMaxLevel,
	).Scan(ctx, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ClaimReferralsProfit moves the whole referral balance into the spendable
// balance atomically; there is no window where the amount exists twice.
func ClaimReferralsProfit(ctx context.Context, db *bun.DB, userID int64) (*models.User, error) {
	var user models.User
	_, err := db.NewUpdate().
		Model(&user).
		Set("balance = balance + referral_balance").
		Set("daily_overall_profit = daily_overall_profit + referral_balance").
		Set("referral_balance = 0").
		Where("id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func CreditReward(ctx context.Context, db *bun.DB, userID int64, amount int64) (*models.User, error) {
	var user models.User
	_, err := db.NewUpdate().
		Model(&user).
		Set("balance = balance + ?", amount).
		Set("daily_overall_profit = daily_overall_profit + ?", amount).
		Where("id = ?", userID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Daily reset jobs. All three are conditional bulk updates: rows already in
// the target state are skipped, which keeps re-runs cheap and idempotent.

func ResetGameEnergy(ctx context.Context, db *bun.DB, dailyAllowance int) error {
	_, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("game_energy = ?", dailyAllowance).
		Where("game_energy < ?", dailyAllowance).
		Exec(ctx)
	return err
}

func ResetDailyHighscore(ctx context.Context, db *bun.DB) error {
	_, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("game_daily_highscore = 0").
		Where("game_daily_highscore > 0").
		Exec(ctx)
	return err
}

func ResetDailyOverallProfit(ctx context.Context, db *bun.DB) error {
	_, err := db.NewUpdate().
		Model((*models.User)(nil)).
		Set("daily_overall_profit = 0").
		Where("daily_overall_profit > 0").
		Exec(ctx)
	return err
}

// GetUserRankingPlace counts users strictly ahead of or tied with the target
// score, excluding the target itself. The subquery limit caps the scan; past
// the cap callers render "10K+" instead of an exact place.
func GetUserRankingPlace(ctx context.Context, db *bun.DB, cfg *models.EconomyConfig, field string, userID int64, value int64) (int, error) {
	subq := db.NewSelect().
		Model((*models.User)(nil)).
		Column("id").
		Where("? >= ?", bun.Ident(field), value).
		Where("id != ?", userID).
		Limit(cfg.RankingPlaceLimit - 1)

	count, err := db.NewSelect().
		TableExpr("(?) AS ranked", subq).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

func GetRankingChunk(ctx context.Context, db *bun.DB, cfg *models.EconomyConfig, field string, offset int) ([]*models.User, error) {
	var users []*models.User
	err := db.NewSelect().
		Model(&users).
		OrderExpr("? DESC", bun.Ident(field)).
		Order("first_name ASC").
		Order("last_name ASC").
		Offset(offset).
		Limit(cfg.RankingChunkSize).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func CountUsers(ctx context.Context, db *bun.DB, source *string) (int, error) {
	q := db.NewSelect().Model((*models.User)(nil))
	if source != nil {
		q = q.Where("source = ?", *source)
	}
	return q.Count(ctx)
}

func CountActiveUsers(ctx context.Context, db *bun.DB) (int, error) {
	return db.NewSelect().
		Model((*models.User)(nil)).
		Where("bot_blocked_at IS NULL").
		Count(ctx)
}
