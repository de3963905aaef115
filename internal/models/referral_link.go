package models

import "github.com/uptrace/bun"

// ReferralLink is a named acquisition-channel code; its id doubles as the
// user's source value when registration comes through the link.
type ReferralLink struct {
	bun.BaseModel `bun:"table:referral_links"`

	ID       string `bun:"id,pk" json:"id"`
	Name     string `bun:"name" json:"name"`
	IsActive bool   `bun:"is_active" json:"is_active"`
}
