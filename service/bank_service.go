package service

import (
	"context"
	"fmt"

	"heist/models"
)

// bankService implements the BankService interface
type bankService struct {
	uowFactory UnitOfWorkFactory
}

// NewBankService creates a new bank service
func NewBankService(uowFactory UnitOfWorkFactory) BankService {
	return &bankService{
		uowFactory: uowFactory,
	}
}

// Deposit moves cash into the user's bank balance
func (s *bankService) Deposit(ctx context.Context, guildID, discordID, amount int64) (*models.BankResult, error) {
	if amount <= 0 {
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

	if amount > user.Cash {
		return nil, ErrNotEnoughCash
	}

	bank, err := uow.BankRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	balanceBefore := user.Cash
	cash := user.TakeCash(amount)
	bank.Balance += amount

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := uow.BankRepository().Update(ctx, bank); err != nil {
		return nil, fmt.Errorf("failed to update bank: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    cash,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeBankDeposit,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BankResult{
		Amount:  amount,
		Cash:    cash,
		Balance: bank.Balance,
	}, nil
}

// Withdraw moves banked funds back into cash
func (s *bankService) Withdraw(ctx context.Context, guildID, discordID, amount int64) (*models.BankResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	bank, err := uow.BankRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	if amount > bank.Balance {
		return nil, ErrInsufficientBankBalance
	}

	balanceBefore := user.Cash
	bank.Balance -= amount
	cash := user.AddCash(amount)

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if err := uow.BankRepository().Update(ctx, bank); err != nil {
		return nil, fmt.Errorf("failed to update bank: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    cash,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeBankWithdraw,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BankResult{
		Amount:  amount,
		Cash:    cash,
		Balance: bank.Balance,
	}, nil
}

// Transfer moves funds bank-to-bank between two registered users within a
// single transaction.
func (s *bankService) Transfer(ctx context.Context, guildID, authorID, targetID, amount int64) (*models.TransferResult, error) {
	if amount <= 0 || authorID == targetID {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Both parties must be registered; the bank rows themselves are locked
	// by the upsert below.
	for _, id := range []int64{authorID, targetID} {
		user, err := uow.UserRepository().GetByDiscordID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
	}

	// Lock bank rows in ascending ID order so crossing transfers cannot
	// deadlock.
	first, second := authorID, targetID
	if second < first {
		first, second = second, first
	}
	firstBank, err := uow.BankRepository().GetOrCreate(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}
	secondBank, err := uow.BankRepository().GetOrCreate(ctx, second)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	authorBank, targetBank := firstBank, secondBank
	if first != authorID {
		authorBank, targetBank = secondBank, firstBank
	}

	if amount > authorBank.Balance {
		return nil, ErrInsufficientBankBalance
	}

	authorBefore := authorBank.Balance
	targetBefore := targetBank.Balance
	authorBank.Balance -= amount
	targetBank.Balance += amount

	if err := uow.BankRepository().Update(ctx, authorBank); err != nil {
		return nil, fmt.Errorf("failed to update author bank: %w", err)
	}
	if err := uow.BankRepository().Update(ctx, targetBank); err != nil {
		return nil, fmt.Errorf("failed to update target bank: %w", err)
	}

	// Transfer histories track the bank balance, not cash on hand
	authorHistory := &models.BalanceHistory{
		DiscordID:       authorID,
		BalanceBefore:   authorBefore,
		BalanceAfter:    authorBank.Balance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeBankTransferOut,
		TransactionMetadata: map[string]any{
			"target_discord_id": targetID,
		},
	}
	if err := RecordBalanceChange(ctx, uow, authorHistory); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	targetHistory := &models.BalanceHistory{
		DiscordID:       targetID,
		BalanceBefore:   targetBefore,
		BalanceAfter:    targetBank.Balance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeBankTransferIn,
		TransactionMetadata: map[string]any{
			"author_discord_id": authorID,
		},
	}
	if err := RecordBalanceChange(ctx, uow, targetHistory); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Amount:        amount,
		AuthorBalance: authorBank.Balance,
		TargetBalance: targetBank.Balance,
	}, nil
}
