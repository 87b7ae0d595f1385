package models

import (
	"time"
)

// Bank holds a user's banked balance, separate from their cash on hand.
// Rows are created lazily with a zero balance on first access.
type Bank struct {
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
