package models

import (
	"math"
	"time"

	"github.com/uptrace/bun"
)

type UserLanguage string

const (
	UserLanguageRU UserLanguage = "RU"
	UserLanguageEN UserLanguage = "EN"
)

type FarmingStatus string

const (
	FarmingNotStarted FarmingStatus = "NOT_STARTED"
	FarmingInProgress FarmingStatus = "IN_PROGRESS"
	FarmingFinished   FarmingStatus = "FINISHED"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        int64        `bun:"id,pk" json:"id"`
	FirstName string       `bun:"first_name" json:"first_name"`
	LastName  *string      `bun:"last_name" json:"last_name"`
	Username  *string      `bun:"username,unique" json:"username"`
	Language  UserLanguage `bun:"language" json:"language"`
	IsBanned  bool         `bun:"is_banned" json:"-"`

	// Source is the referral attribution captured at registration: either a
	// referrer's user id in decimal form or a referral-link code.
	Source                    *string `bun:"source" json:"-"`
	ReferralRegistrationBonus int64   `bun:"referral_registration_bonus" json:"-"`

	Balance            int64 `bun:"balance" json:"balance"`
	ReferralBalance    int64 `bun:"referral_balance" json:"referral_balance"`
	DailyOverallProfit int64 `bun:"daily_overall_profit" json:"daily_overall_profit"`

	GameEnergy           int   `bun:"game_energy" json:"game_energy"`
	GameDailyHighscore   int64 `bun:"game_daily_highscore" json:"game_daily_highscore"`
	GameAlltimeHighscore int64 `bun:"game_alltime_highscore" json:"game_alltime_highscore"`

	FarmingStartedAt      *time.Time `bun:"farming_started_at" json:"farming_started_at"`
	FarmingDurationHours  int        `bun:"farming_duration_hours" json:"farming_duration_hours"`
	FarmingHourMiningRate int64      `bun:"farming_hour_mining_rate" json:"farming_hour_mining_rate"`

	UsedWebapp bool `bun:"used_webapp" json:"-"`

	CreatedAt      time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
	LastActivityAt time.Time  `bun:"last_activity_at,default:current_timestamp" json:"-"`
	BotBlockedAt   *time.Time `bun:"bot_blocked_at" json:"-"`
}

// FarmingStatusAt derives the farming state from persisted fields; nothing is
// cached, so the status can never disagree with farming_started_at.
func (u *User) FarmingStatusAt(now time.Time) FarmingStatus {
	if u.FarmingStartedAt == nil {
		return FarmingNotStarted
	}
	deadline := u.FarmingStartedAt.Add(time.Duration(u.FarmingDurationHours) * time.Hour)
	if now.Before(deadline) {
		return FarmingInProgress
	}
	return FarmingFinished
}

func (u *User) FarmingStatus() FarmingStatus {
	return u.FarmingStatusAt(time.Now().UTC())
}

// FarmingTotalProfit is duration x hourly rate, never integrated per second.
func (u *User) FarmingTotalProfit() int64 {
	return int64(u.FarmingDurationHours) * u.FarmingHourMiningRate
}

// FarmingSecondMiningRate is display-only, rounded to two decimals.
func (u *User) FarmingSecondMiningRate() float64 {
	return math.Round(float64(u.FarmingHourMiningRate)/3600*100) / 100
}

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	IsBot        bool   `json:"is_bot"`
	IsPremium    bool   `json:"is_premium"`
	LanguageCode string `json:"language_code"`
	StartParam   string `json:"start_param"`
}

type ReferralLevelStats struct {
	Level           int   `bun:"level" json:"level"`
	ReferralsAmount int64 `bun:"referrals_amount" json:"referrals_amount"`
	ReferralsProfit int64 `bun:"referrals_profit" json:"referrals_profit"`
}
