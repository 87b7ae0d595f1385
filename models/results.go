package models

// WorkResult is the outcome of a work action
type WorkResult struct {
	Amount    int64
	Cash      int64
	Exp       int64
	LeveledUp bool
	PerkUsed  bool
}

// RobResult is the outcome of a rob attempt
type RobResult struct {
	Failed    bool
	Amount    int64
	Cash      int64
	Exp       int64
	LeveledUp bool
	PerkUsed  bool
}

// DonateResult is the outcome of a donation to another user
type DonateResult struct {
	Amount    int64
	Cash      int64
	Exp       int64
	LeveledUp bool
}

// CharityResult is the outcome of a charity action
type CharityResult struct {
	Amount    int64
	Cash      int64
	Exp       int64
	LeveledUp bool
}

// GambleResult is the outcome of a gamble
type GambleResult struct {
	Won    bool
	Amount int64
	Cash   int64
}

// PurchaseResult is the outcome of a perk purchase
type PurchaseResult struct {
	Quantity int64
	Cost     int64
	Cash     int64
	Charges  int64
}

// BankResult is the outcome of a deposit or withdrawal
type BankResult struct {
	Amount  int64
	Cash    int64
	Balance int64
}

// TransferResult is the outcome of a bank-to-bank transfer
type TransferResult struct {
	Amount        int64
	AuthorBalance int64
	TargetBalance int64
}
