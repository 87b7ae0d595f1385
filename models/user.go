package models

import (
	"time"
)

// User represents one player's ledger row in a guild
type User struct {
	GuildID   int64     `db:"guild_id"`
	DiscordID int64     `db:"discord_id"`
	Level     int64     `db:"level"`
	Exp       int64     `db:"exp"`
	Cash      int64     `db:"cash"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ExpToLevelUp returns the experience threshold for the user's current level
func (u *User) ExpToLevelUp() int64 {
	return u.Level*u.Level + u.Level*2 + 2
}

// AddCash credits the user's cash and returns the new amount
func (u *User) AddCash(amount int64) int64 {
	u.Cash += amount
	return u.Cash
}

// TakeCash debits the user's cash and returns the new amount.
// Preconditions are the engine's responsibility; the result may go negative
// (failed-rob penalty).
func (u *User) TakeCash(amount int64) int64 {
	u.Cash -= amount
	return u.Cash
}

// AddExp adds gained experience and resolves level-ups. A level-up clamps
// experience to the crossed threshold and increments the level; experience
// above the threshold is discarded, not carried forward. Returns whether at
// least one level-up occurred.
func (u *User) AddExp(gained int64) bool {
	u.Exp += gained

	leveledUp := u.Exp > u.ExpToLevelUp()
	for u.Exp > u.ExpToLevelUp() {
		u.Exp = u.ExpToLevelUp()
		u.Level++
	}
	return leveledUp
}
