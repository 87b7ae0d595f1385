package service

import (
	"context"
	"fmt"

	"heist/models"
)

// perkService implements the PerkService interface
type perkService struct {
	uowFactory UnitOfWorkFactory
}

// NewPerkService creates a new perk service
func NewPerkService(uowFactory UnitOfWorkFactory) PerkService {
	return &perkService{
		uowFactory: uowFactory,
	}
}

// BuyWork purchases qty work charges at WorkPerkPrice each
func (s *perkService) BuyWork(ctx context.Context, guildID, discordID, qty int64) (*models.PurchaseResult, error) {
	return s.buy(ctx, guildID, discordID, qty, WorkPerkPrice, "work")
}

// BuyRob purchases qty rob charges at RobPerkPrice each
func (s *perkService) BuyRob(ctx context.Context, guildID, discordID, qty int64) (*models.PurchaseResult, error) {
	return s.buy(ctx, guildID, discordID, qty, RobPerkPrice, "rob")
}

func (s *perkService) buy(ctx context.Context, guildID, discordID, qty, price int64, kind string) (*models.PurchaseResult, error) {
	if qty <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	cost := qty * price
	if cost > user.Cash {
		return nil, ErrNotEnoughCash
	}

	balanceBefore := user.Cash
	cash := user.TakeCash(cost)
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	perk, err := uow.PerkRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get perks: %w", err)
	}

	var charges int64
	switch kind {
	case "work":
		perk.WorkCharges += qty
		charges = perk.WorkCharges
	case "rob":
		perk.RobCharges += qty
		charges = perk.RobCharges
	}
	if err := uow.PerkRepository().Update(ctx, perk); err != nil {
		return nil, fmt.Errorf("failed to update perks: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    cash,
		ChangeAmount:    -cost,
		TransactionType: models.TransactionTypePerkPurchase,
		TransactionMetadata: map[string]any{
			"perk":     kind,
			"quantity": qty,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PurchaseResult{
		Quantity: qty,
		Cost:     cost,
		Cash:     cash,
		Charges:  charges,
	}, nil
}
