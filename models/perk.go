package models

import (
	"time"
)

// Perk holds a user's consumable perk charges. Rows are created lazily with
// zero charges on first access.
type Perk struct {
	GuildID     int64     `db:"guild_id"`
	DiscordID   int64     `db:"discord_id"`
	WorkCharges int64     `db:"work_charges"`
	RobCharges  int64     `db:"rob_charges"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
