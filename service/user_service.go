package service

import (
	"context"
	"fmt"

	"heist/events"
	"heist/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// Register creates a user at level 1 with zero exp and cash. Re-registering
// an existing user is a no-op returning created=false.
func (s *userService) Register(ctx context.Context, guildID, discordID int64) (*models.User, bool, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		return user, false, nil
	}

	user, err = uow.UserRepository().Create(ctx, discordID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   0,
		BalanceAfter:    user.Cash,
		ChangeAmount:    user.Cash,
		TransactionType: models.TransactionTypeInitial,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, false, fmt.Errorf("failed to record initial balance: %w", err)
	}

	uow.EventBus().Publish(events.UserRegisteredEvent{
		GuildID:   guildID,
		DiscordID: discordID,
	})

	if err := uow.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, true, nil
}

// GetUser retrieves a registered user or ErrUserNotFound
func (s *userService) GetUser(ctx context.Context, guildID, discordID int64) (*models.User, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// GetProfile retrieves a user with their perk charges and bank balance
func (s *userService) GetProfile(ctx context.Context, guildID, discordID int64) (*models.Profile, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	perk, err := uow.PerkRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get perks: %w", err)
	}

	bank, err := uow.BankRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	// Lazy perk/bank rows were possibly inserted above
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Profile{User: user, Perk: perk, Bank: bank}, nil
}

// GetHistory returns the user's most recent balance changes, newest first
func (s *userService) GetHistory(ctx context.Context, guildID, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	history, err := uow.BalanceHistoryRepository().GetByUser(ctx, discordID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}

	return history, nil
}
