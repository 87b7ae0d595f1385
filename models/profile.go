package models

// Profile bundles one user's ledger row with their sub-ledgers for display
type Profile struct {
	User *User
	Perk *Perk
	Bank *Bank
}
