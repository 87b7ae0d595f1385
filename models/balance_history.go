package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial         TransactionType = "initial"
	TransactionTypeWorkPayout      TransactionType = "work_payout"
	TransactionTypeRobSteal        TransactionType = "rob_steal"
	TransactionTypeRobVictim       TransactionType = "rob_victim"
	TransactionTypeRobPenalty      TransactionType = "rob_penalty"
	TransactionTypeDonateIn        TransactionType = "donate_in"
	TransactionTypeDonateOut       TransactionType = "donate_out"
	TransactionTypeCharity         TransactionType = "charity"
	TransactionTypeGambleWin       TransactionType = "gamble_win"
	TransactionTypeGambleLoss      TransactionType = "gamble_loss"
	TransactionTypePerkPurchase    TransactionType = "perk_purchase"
	TransactionTypeBankDeposit     TransactionType = "bank_deposit"
	TransactionTypeBankWithdraw    TransactionType = "bank_withdraw"
	TransactionTypeBankTransferIn  TransactionType = "bank_transfer_in"
	TransactionTypeBankTransferOut TransactionType = "bank_transfer_out"
)

// BalanceHistory represents a historical cash change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	GuildID             int64           `db:"guild_id"`
	DiscordID           int64           `db:"discord_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}
