package service

import (
	"context"
	"fmt"
	"math"

	"heist/events"
	"heist/models"
)

// robFailureThreshold is the failure cutoff for the rob draw in [0,100):
// draws above it fail, so the baseline success rate is 50%.
const robFailureThreshold = 49.0

// robPerkBonus is subtracted from the rob draw when a rob charge is
// consumed, improving the success rate by 15 percentage points.
const robPerkBonus = 15.0

// gameService implements the GameService interface
type gameService struct {
	uowFactory UnitOfWorkFactory
	rng        Rand
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory, rng Rand) GameService {
	return &gameService{
		uowFactory: uowFactory,
		rng:        rng,
	}
}

// Work pays out cash based on the user's level. An available work charge is
// consumed and adds +1 to the effective multiplier for this call only.
func (s *gameService) Work(ctx context.Context, guildID, discordID int64, multiplier float64) (*models.WorkResult, error) {
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

	perk, err := uow.PerkRepository().GetOrCreate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get perks: %w", err)
	}

	perkUsed := false
	if perk.WorkCharges > 0 {
		perk.WorkCharges--
		perkUsed = true
		multiplier++
		if err := uow.PerkRepository().Update(ctx, perk); err != nil {
			return nil, fmt.Errorf("failed to consume work charge: %w", err)
		}
	}

	amount := scale(uniformInt(s.rng, user.Level, user.Level*3), multiplier)
	balanceBefore := user.Cash
	cash := user.AddCash(amount)
	exp, leveledUp := awardExp(s.rng, user, multiplier, nil)

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    cash,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeWorkPayout,
		TransactionMetadata: map[string]any{
			"multiplier": multiplier,
			"perk_used":  perkUsed,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if leveledUp {
		uow.EventBus().Publish(events.LevelUpEvent{
			GuildID:   guildID,
			DiscordID: discordID,
			Level:     user.Level,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.WorkResult{
		Amount:    amount,
		Cash:      cash,
		Exp:       exp,
		LeveledUp: leveledUp,
		PerkUsed:  perkUsed,
	}, nil
}

// Rob attempts to steal up to 20% of the target's cash. A failed attempt
// debits the author by the computed amount instead; an available rob charge
// improves the odds for this attempt only.
func (s *gameService) Rob(ctx context.Context, guildID, authorID, targetID int64, multiplier float64) (*models.RobResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	author, target, err := lockPair(ctx, uow, authorID, targetID)
	if err != nil {
		return nil, err
	}

	if target.Cash <= 0 {
		return nil, ErrInvalidRobTarget
	}

	perk, err := uow.PerkRepository().GetOrCreate(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get perks: %w", err)
	}

	perkUsed := false
	if perk.RobCharges > 0 {
		perk.RobCharges--
		perkUsed = true
		if err := uow.PerkRepository().Update(ctx, perk); err != nil {
			return nil, fmt.Errorf("failed to consume rob charge: %w", err)
		}
	}

	maxSteal := int64(math.Round(float64(target.Cash) * 0.20))
	amount := scale(uniformInt(s.rng, 1, maxSteal), multiplier)

	draw := s.rng.Float64() * 100
	if perkUsed {
		draw -= robPerkBonus
	}
	failed := draw > robFailureThreshold

	result := &models.RobResult{
		Failed:   failed,
		Amount:   amount,
		PerkUsed: perkUsed,
	}

	if failed {
		balanceBefore := author.Cash
		result.Cash = author.TakeCash(amount)
		if err := uow.UserRepository().Update(ctx, author); err != nil {
			return nil, fmt.Errorf("failed to update author: %w", err)
		}

		history := &models.BalanceHistory{
			DiscordID:       authorID,
			BalanceBefore:   balanceBefore,
			BalanceAfter:    author.Cash,
			ChangeAmount:    -amount,
			TransactionType: models.TransactionTypeRobPenalty,
			TransactionMetadata: map[string]any{
				"target_discord_id": targetID,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record balance change: %w", err)
		}
	} else {
		authorBefore := author.Cash
		result.Cash = author.AddCash(amount)
		result.Exp, result.LeveledUp = awardExp(s.rng, author, multiplier, &amount)
		if err := uow.UserRepository().Update(ctx, author); err != nil {
			return nil, fmt.Errorf("failed to update author: %w", err)
		}

		targetBefore := target.Cash
		target.TakeCash(amount)
		if err := uow.UserRepository().Update(ctx, target); err != nil {
			return nil, fmt.Errorf("failed to update target: %w", err)
		}

		authorHistory := &models.BalanceHistory{
			DiscordID:       authorID,
			BalanceBefore:   authorBefore,
			BalanceAfter:    author.Cash,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeRobSteal,
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
			BalanceAfter:    target.Cash,
			ChangeAmount:    -amount,
			TransactionType: models.TransactionTypeRobVictim,
			TransactionMetadata: map[string]any{
				"author_discord_id": authorID,
			},
		}
		if err := RecordBalanceChange(ctx, uow, targetHistory); err != nil {
			return nil, fmt.Errorf("failed to record balance change: %w", err)
		}

		if result.LeveledUp {
			uow.EventBus().Publish(events.LevelUpEvent{
				GuildID:   guildID,
				DiscordID: authorID,
				Level:     author.Level,
			})
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// Donate moves cash from author to target; the author earns experience
// based on the donated amount.
func (s *gameService) Donate(ctx context.Context, guildID, authorID, targetID, amount int64, multiplier float64) (*models.DonateResult, error) {
	uow := s.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	author, target, err := lockPair(ctx, uow, authorID, targetID)
	if err != nil {
		return nil, err
	}

	if amount <= 0 || amount > author.Cash {
		return nil, ErrInvalidAmount
	}

	authorBefore := author.Cash
	cash := author.TakeCash(amount)
	exp, leveledUp := awardExp(s.rng, author, multiplier, &amount)
	if err := uow.UserRepository().Update(ctx, author); err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	targetBefore := target.Cash
	target.AddCash(amount)
	if err := uow.UserRepository().Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update target: %w", err)
	}

	authorHistory := &models.BalanceHistory{
		DiscordID:       authorID,
		BalanceBefore:   authorBefore,
		BalanceAfter:    cash,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeDonateOut,
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
		BalanceAfter:    target.Cash,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeDonateIn,
		TransactionMetadata: map[string]any{
			"author_discord_id": authorID,
		},
	}
	if err := RecordBalanceChange(ctx, uow, targetHistory); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if leveledUp {
		uow.EventBus().Publish(events.LevelUpEvent{
			GuildID:   guildID,
			DiscordID: authorID,
			Level:     author.Level,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DonateResult{
		Amount:    amount,
		Cash:      cash,
		Exp:       exp,
		LeveledUp: leveledUp,
	}, nil
}

// Charity burns the user's cash for experience based on the amount given.
func (s *gameService) Charity(ctx context.Context, guildID, discordID, amount int64, multiplier float64) (*models.CharityResult, error) {
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

	if amount <= 0 || amount > user.Cash {
		return nil, ErrInvalidAmount
	}

	balanceBefore := user.Cash
	cash := user.TakeCash(amount)
	exp, leveledUp := awardExp(s.rng, user, multiplier, &amount)
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    cash,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeCharity,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if leveledUp {
		uow.EventBus().Publish(events.LevelUpEvent{
			GuildID:   guildID,
			DiscordID: discordID,
			Level:     user.Level,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.CharityResult{
		Amount:    amount,
		Cash:      cash,
		Exp:       exp,
		LeveledUp: leveledUp,
	}, nil
}

// Gamble stakes an amount on a fair coin. The resolved payout is uniform in
// [round(amount*0.1), round(amount*2.0)] and is added on a win or subtracted
// on a loss.
func (s *gameService) Gamble(ctx context.Context, guildID, discordID, amount int64) (*models.GambleResult, error) {
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

	if amount < 0 || amount > user.Cash {
		return nil, ErrInvalidAmount
	}

	payout := uniformInt(s.rng,
		int64(math.Round(float64(amount)*0.1)),
		int64(math.Round(float64(amount)*2.0)),
	)
	won := s.rng.Float64()*100 > 49

	balanceBefore := user.Cash
	transactionType := models.TransactionTypeGambleWin
	var cash int64
	if won {
		cash = user.AddCash(payout)
	} else {
		cash = user.TakeCash(payout)
		transactionType = models.TransactionTypeGambleLoss
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	history := &models.BalanceHistory{
		DiscordID:       discordID,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    cash,
		ChangeAmount:    cash - balanceBefore,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"stake": amount,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.GambleResult{
		Won:    won,
		Amount: payout,
		Cash:   cash,
	}, nil
}

// scale multiplies a drawn amount by the action multiplier and rounds to
// the nearest whole unit of cash.
func scale(amount int64, multiplier float64) int64 {
	return int64(math.Round(float64(amount) * multiplier))
}

// lockPair fetches two users with row locks in ascending ID order so that
// crossing operations (a robs b while b robs a) cannot deadlock.
func lockPair(ctx context.Context, uow UnitOfWork, authorID, targetID int64) (author, target *models.User, err error) {
	if authorID == targetID {
		user, err := uow.UserRepository().GetForUpdate(ctx, authorID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, nil, ErrUserNotFound
		}
		// Same row, same instance: mutations must not diverge across copies
		return user, user, nil
	}

	first, second := authorID, targetID
	if second < first {
		first, second = second, first
	}

	firstUser, err := uow.UserRepository().GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	secondUser, err := uow.UserRepository().GetForUpdate(ctx, second)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if firstUser == nil || secondUser == nil {
		return nil, nil, ErrUserNotFound
	}

	if first == authorID {
		return firstUser, secondUser, nil
	}
	return secondUser, firstUser, nil
}
