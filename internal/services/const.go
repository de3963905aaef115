package services

import (
	"errors"
	"fmt"
	"time"
)

// Business-rule failures. Handlers translate these through errorx kinds; the
// sentinel keeps the condition distinguishable after wrapping.
var (
	ErrActionNotAllowed    = errors.New("action not allowed")
	ErrAlreadyClaimed      = errors.New("daily reward already claimed")
	ErrTaskUncompleted     = errors.New("bonus task is not completed")
	ErrGameStartImpossible = errors.New("not enough energy")
	ErrGameFinishLock      = errors.New("game finish locked")
)

const (
	CACHE_TTL_5_SECONDS = 5 * time.Second
	CACHE_TTL_5_MINS    = 5 * time.Minute

	TELEGRAM_API_BASE_URL = "https://api.telegram.org"

	TASK_VERIFY_RATE_LIMIT_PER_MINUTE = 10

	JWT_ACCESS_TTL = 90 * time.Minute
)

func LockKeyGameFinish(gameID string) string {
	return fmt.Sprintf("lock:game-finish:%s", gameID)
}

func LockKeyDailyRewardClaim(userID int64) string {
	return fmt.Sprintf("lock:daily-reward-claim:%d", userID)
}

func DBKeyDailyRewards() string {
	return "daily_rewards:all"
}

func DBKeyReferralLink(linkID string) string {
	return fmt.Sprintf("referral_link:%s", linkID)
}

func DBKeyRankingChunk(field string, offset int) string {
	return fmt.Sprintf("ranking:chunk:%s:%d", field, offset)
}

func LimitKeyTaskVerify(userID int64) string {
	return fmt.Sprintf("limit:task-verify:%d", userID)
}
