package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Game is one play session. It is created when the player spends an energy
// point and finished exactly once; the row is immutable after finish.
type Game struct {
	bun.BaseModel `bun:"table:games"`

	ID     string `bun:"id,pk" json:"id"`
	UserID int64  `bun:"user_id" json:"user_id"`
	Score  *int64 `bun:"score" json:"score"`

	MarkedAsSuspicious *bool `bun:"marked_as_suspicious" json:"-"`
	OnFraudCheck       *bool `bun:"on_fraud_check" json:"-"`

	CreatedAt  time.Time  `bun:"created_at,default:current_timestamp" json:"created_at"`
	FinishedAt *time.Time `bun:"finished_at" json:"finished_at"`
}
