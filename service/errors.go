package service

import (
	"errors"
)

// Domain errors raised by engine operations at precondition-check time,
// before any mutation. The bot layer maps these to user-facing messages;
// the engine never wraps them in presentation concerns.
var (
	// ErrUserNotFound indicates an operation referenced an unregistered user.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidAmount indicates a non-positive amount, or one exceeding the
	// user's cash.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRobTarget indicates the rob victim has no stealable cash.
	ErrInvalidRobTarget = errors.New("target has no cash to rob")

	// ErrNotEnoughCash indicates insufficient cash for a purchase or deposit.
	ErrNotEnoughCash = errors.New("not enough cash")

	// ErrInsufficientBankBalance indicates insufficient banked funds for a
	// withdrawal or transfer.
	ErrInsufficientBankBalance = errors.New("insufficient bank balance")
)
