package service

// Perk unit prices in cash
const (
	WorkPerkPrice int64 = 10
	RobPerkPrice  int64 = 50
)
