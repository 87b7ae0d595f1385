package service

import (
	"context"
	"fmt"

	"heist/events"
	"heist/models"
)

// RecordBalanceChange records a balance history entry and emits the matching
// event through the unit of work's transactional bus. This is the single
// entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		GuildID:         history.GuildID,
		DiscordID:       history.DiscordID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		ChangeAmount:    history.ChangeAmount,
		TransactionType: history.TransactionType,
	})

	return nil
}
