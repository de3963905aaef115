package models

// EconomyConfig is the immutable tuning table of the economy engine. It is
// built once at process start and handed to services through the container;
// tests substitute their own values.
type EconomyConfig struct {
	DailyGameEnergy int

	FarmingDurationHours  int
	FarmingHourMiningRate int64

	ReferralBonus        int64
	PremiumReferralBonus int64
	// ReferralPercentBP maps referral level (1-indexed) to the commission in
	// basis points, so 2.5% is representable without floats.
	ReferralPercentBP map[int]int64
	ReferralMaxLevel  int

	// GameLevelPoints holds the points earned per level lap; a level counts
	// as completed once the claimed score reaches the running sum up to it.
	GameLevelPoints        []int64
	GameSuspicionLevels    int
	GameSecondsPerLevelMin int

	RankingPlaceLimit  int
	RankingChunkSize   int
	RankingMaxTopPlace int
}

func DefaultEconomyConfig() *EconomyConfig {
	return &EconomyConfig{
		DailyGameEnergy: 5,

		FarmingDurationHours:  10,
		FarmingHourMiningRate: 36,

		ReferralBonus:        100,
		PremiumReferralBonus: 500,
		ReferralPercentBP:    map[int]int64{1: 500, 2: 250, 3: 125},
		ReferralMaxLevel:     3,

		GameLevelPoints:        []int64{87, 145, 203, 261, 319, 377, 435, 493, 551},
		GameSuspicionLevels:    9,
		GameSecondsPerLevelMin: 6,

		RankingPlaceLimit:  10000,
		RankingChunkSize:   100,
		RankingMaxTopPlace: 1000,
	}
}
