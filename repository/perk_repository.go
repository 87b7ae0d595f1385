package repository

import (
	"context"
	"fmt"

	"heist/database"
	"heist/models"
)

// PerkRepository implements the service.PerkRepository interface
type PerkRepository struct {
	q       Queryable
	guildID int64
}

// NewPerkRepository creates a new perk repository scoped to a guild
func NewPerkRepository(db *database.DB, guildID int64) *PerkRepository {
	return &PerkRepository{q: db.Pool, guildID: guildID}
}

// newPerkRepository creates a new perk repository with a transaction and guild scope
func newPerkRepository(tx Queryable, guildID int64) *PerkRepository {
	return &PerkRepository{q: tx, guildID: guildID}
}

// GetOrCreate atomically fetches the user's perk row, inserting a zero-charge
// row if none exists. The upsert takes the row lock, so a subsequent Update
// inside the same transaction cannot lose a concurrent write.
func (r *PerkRepository) GetOrCreate(ctx context.Context, discordID int64) (*models.Perk, error) {
	query := `
		INSERT INTO perks (guild_id, discord_id, work_charges, rob_charges)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (guild_id, discord_id)
		DO UPDATE SET discord_id = EXCLUDED.discord_id
		RETURNING guild_id, discord_id, work_charges, rob_charges, created_at, updated_at
	`

	var perk models.Perk
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(
		&perk.GuildID,
		&perk.DiscordID,
		&perk.WorkCharges,
		&perk.RobCharges,
		&perk.CreatedAt,
		&perk.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create perks for user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return &perk, nil
}

// Update persists the perk charge counts
func (r *PerkRepository) Update(ctx context.Context, perk *models.Perk) error {
	query := `
		UPDATE perks
		SET work_charges = $1, rob_charges = $2, updated_at = NOW()
		WHERE guild_id = $3 AND discord_id = $4
	`

	result, err := r.q.Exec(ctx, query, perk.WorkCharges, perk.RobCharges, r.guildID, perk.DiscordID)
	if err != nil {
		return fmt.Errorf("failed to update perks for user %d in guild %d: %w", perk.DiscordID, r.guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("perks for user %d not found in guild %d", perk.DiscordID, r.guildID)
	}

	return nil
}
