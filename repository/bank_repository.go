package repository

import (
	"context"
	"fmt"

	"heist/database"
	"heist/models"
)

// BankRepository implements the service.BankRepository interface
type BankRepository struct {
	q       Queryable
	guildID int64
}

// NewBankRepository creates a new bank repository scoped to a guild
func NewBankRepository(db *database.DB, guildID int64) *BankRepository {
	return &BankRepository{q: db.Pool, guildID: guildID}
}

// newBankRepository creates a new bank repository with a transaction and guild scope
func newBankRepository(tx Queryable, guildID int64) *BankRepository {
	return &BankRepository{q: tx, guildID: guildID}
}

// GetOrCreate atomically fetches the user's bank row, inserting a
// zero-balance row if none exists
func (r *BankRepository) GetOrCreate(ctx context.Context, discordID int64) (*models.Bank, error) {
	query := `
		INSERT INTO banks (guild_id, discord_id, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (guild_id, discord_id)
		DO UPDATE SET discord_id = EXCLUDED.discord_id
		RETURNING guild_id, discord_id, balance, created_at, updated_at
	`

	var bank models.Bank
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(
		&bank.GuildID,
		&bank.DiscordID,
		&bank.Balance,
		&bank.CreatedAt,
		&bank.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get or create bank for user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return &bank, nil
}

// Update persists the bank balance
func (r *BankRepository) Update(ctx context.Context, bank *models.Bank) error {
	query := `
		UPDATE banks
		SET balance = $1, updated_at = NOW()
		WHERE guild_id = $2 AND discord_id = $3
	`

	result, err := r.q.Exec(ctx, query, bank.Balance, r.guildID, bank.DiscordID)
	if err != nil {
		return fmt.Errorf("failed to update bank for user %d in guild %d: %w", bank.DiscordID, r.guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("bank for user %d not found in guild %d", bank.DiscordID, r.guildID)
	}

	return nil
}
