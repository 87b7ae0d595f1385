package service

import (
	"context"

	"heist/events"
	"heist/models"
)

// UserRepository defines the interface for user ledger data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, or nil if absent
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// GetForUpdate retrieves a user with a row lock held for the rest of the
	// transaction, or nil if absent
	GetForUpdate(ctx context.Context, discordID int64) (*models.User, error)

	// Create inserts a new user at level 1 with zero exp and cash
	Create(ctx context.Context, discordID int64) (*models.User, error)

	// Update persists the user's level, exp and cash
	Update(ctx context.Context, user *models.User) error
}

// PerkRepository defines the interface for perk-charge data access
type PerkRepository interface {
	// GetOrCreate atomically fetches the user's perk row, inserting a
	// zero-charge row if none exists
	GetOrCreate(ctx context.Context, discordID int64) (*models.Perk, error)

	// Update persists the perk charge counts
	Update(ctx context.Context, perk *models.Perk) error
}

// BankRepository defines the interface for bank balance data access
type BankRepository interface {
	// GetOrCreate atomically fetches the user's bank row, inserting a
	// zero-balance row if none exists
	GetOrCreate(ctx context.Context, discordID int64) (*models.Bank, error)

	// Update persists the bank balance
	Update(ctx context.Context, bank *models.Bank) error
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific user, newest first
	GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// UserService defines the interface for registration and profile reads
type UserService interface {
	// Register creates a user at level 1 with zero exp and cash. Registering
	// an already-registered user is a no-op; created reports whether a new
	// row was inserted.
	Register(ctx context.Context, guildID, discordID int64) (user *models.User, created bool, err error)

	// GetUser retrieves a registered user or ErrUserNotFound
	GetUser(ctx context.Context, guildID, discordID int64) (*models.User, error)

	// GetProfile retrieves a user together with their perk charges and bank
	// balance, or ErrUserNotFound
	GetProfile(ctx context.Context, guildID, discordID int64) (*models.Profile, error)

	// GetHistory returns the user's most recent balance changes, newest
	// first, or ErrUserNotFound
	GetHistory(ctx context.Context, guildID, discordID int64, limit int) ([]*models.BalanceHistory, error)
}

// GameService defines the interface for randomized economy actions
type GameService interface {
	// Work pays out cash based on level, consuming a work charge if available
	Work(ctx context.Context, guildID, discordID int64, multiplier float64) (*models.WorkResult, error)

	// Rob attempts to steal a share of the target's cash; failure debits the
	// author instead
	Rob(ctx context.Context, guildID, authorID, targetID int64, multiplier float64) (*models.RobResult, error)

	// Donate moves cash from author to target, awarding the author experience
	Donate(ctx context.Context, guildID, authorID, targetID, amount int64, multiplier float64) (*models.DonateResult, error)

	// Charity burns the author's cash for experience
	Charity(ctx context.Context, guildID, discordID, amount int64, multiplier float64) (*models.CharityResult, error)

	// Gamble stakes an amount on a fair coin for a randomized payout
	Gamble(ctx context.Context, guildID, discordID, amount int64) (*models.GambleResult, error)
}

// PerkService defines the interface for perk purchases
type PerkService interface {
	// BuyWork purchases qty work charges at WorkPerkPrice each
	BuyWork(ctx context.Context, guildID, discordID, qty int64) (*models.PurchaseResult, error)

	// BuyRob purchases qty rob charges at RobPerkPrice each
	BuyRob(ctx context.Context, guildID, discordID, qty int64) (*models.PurchaseResult, error)
}

// BankService defines the interface for banking operations
type BankService interface {
	// Deposit moves cash into the user's bank balance
	Deposit(ctx context.Context, guildID, discordID, amount int64) (*models.BankResult, error)

	// Withdraw moves banked funds back into cash
	Withdraw(ctx context.Context, guildID, discordID, amount int64) (*models.BankResult, error)

	// Transfer moves funds bank-to-bank between two registered users
	Transfer(ctx context.Context, guildID, authorID, targetID, amount int64) (*models.TransferResult, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations.
// One unit of work wraps one engine operation's full read-modify-write
// sequence in a single database transaction.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction; a no-op after Commit
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	PerkRepository() PerkRepository
	BankRepository() BankRepository
	BalanceHistoryRepository() BalanceHistoryRepository

	// EventBus returns the transactional event bus; events publish only
	// after a successful commit
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}
