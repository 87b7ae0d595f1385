package repository

import (
	"context"
	"fmt"

	"heist/database"
	"heist/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q       Queryable
	guildID int64
}

// NewUserRepository creates a new user repository scoped to a guild
func NewUserRepository(db *database.DB, guildID int64) *UserRepository {
	return &UserRepository{q: db.Pool, guildID: guildID}
}

// newUserRepository creates a new user repository with a transaction and guild scope
func newUserRepository(tx Queryable, guildID int64) *UserRepository {
	return &UserRepository{q: tx, guildID: guildID}
}

// GetByDiscordID retrieves a user by their Discord ID in the current guild
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT guild_id, discord_id, level, exp, cash, created_at, updated_at
		FROM users
		WHERE guild_id = $1 AND discord_id = $2
	`

	return r.scanUser(ctx, query, discordID)
}

// GetForUpdate retrieves a user with a row lock held until the surrounding
// transaction ends
func (r *UserRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT guild_id, discord_id, level, exp, cash, created_at, updated_at
		FROM users
		WHERE guild_id = $1 AND discord_id = $2
		FOR UPDATE
	`

	return r.scanUser(ctx, query, discordID)
}

func (r *UserRepository) scanUser(ctx context.Context, query string, discordID int64) (*models.User, error) {
	var user models.User
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(
		&user.GuildID,
		&user.DiscordID,
		&user.Level,
		&user.Exp,
		&user.Cash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return &user, nil
}

// Create inserts a new user at level 1 with zero exp and cash
func (r *UserRepository) Create(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		INSERT INTO users (guild_id, discord_id, level, exp, cash)
		VALUES ($1, $2, 1, 0, 0)
		RETURNING guild_id, discord_id, level, exp, cash, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, r.guildID, discordID).Scan(
		&user.GuildID,
		&user.DiscordID,
		&user.Level,
		&user.Exp,
		&user.Cash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user %d in guild %d: %w", discordID, r.guildID, err)
	}

	return &user, nil
}

// Update persists the user's level, exp and cash
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET level = $1, exp = $2, cash = $3, updated_at = NOW()
		WHERE guild_id = $4 AND discord_id = $5
	`

	result, err := r.q.Exec(ctx, query, user.Level, user.Exp, user.Cash, r.guildID, user.DiscordID)
	if err != nil {
		return fmt.Errorf("failed to update user %d in guild %d: %w", user.DiscordID, r.guildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found in guild %d", user.DiscordID, r.guildID)
	}

	return nil
}
