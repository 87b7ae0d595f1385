package service

import (
	"context"
	"testing"

	"heist/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGameService_Work(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	user := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 2, Exp: 0, Cash: 10}
	perk := &models.Perk{GuildID: TestGuildID, DiscordID: TestUser1ID}

	// Payout draw 3 from [2, 6] gives 5; exp draw 0 from [2, 5] gives 2
	rng := &fakeRand{ints: []int{3, 0}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(user, nil)
	uow.PerkRepo.On("GetOrCreate", ctx, int64(TestUser1ID)).Return(perk, nil)
	uow.UserRepo.On("Update", ctx, user).Return(nil)

	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeWorkPayout &&
			h.BalanceBefore == 10 &&
			h.BalanceAfter == 15 &&
			h.ChangeAmount == 5
	})).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Work(ctx, TestGuildID, TestUser1ID, 1.0)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), result.Amount)
	assert.Equal(t, int64(15), result.Cash)
	assert.Equal(t, int64(2), result.Exp)
	assert.False(t, result.LeveledUp)
	assert.False(t, result.PerkUsed)

	// No charges held, so nothing to consume
	uow.PerkRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Work_ConsumesCharge(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	user := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Exp: 0, Cash: 0}
	perk := &models.Perk{GuildID: TestGuildID, DiscordID: TestUser1ID, WorkCharges: 1}

	// The consumed charge bumps the multiplier to 2.0: payout draw 2 from
	// [1, 3] gives 3, scaled to 6; exp draw 4 from [1, 5] gives 5
	rng := &fakeRand{ints: []int{2, 4}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(user, nil)
	uow.PerkRepo.On("GetOrCreate", ctx, int64(TestUser1ID)).Return(perk, nil)
	uow.PerkRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Perk) bool {
		return p.WorkCharges == 0
	})).Return(nil)
	uow.UserRepo.On("Update", ctx, user).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Work(ctx, TestGuildID, TestUser1ID, 1.0)

	assert.NoError(t, err)
	assert.True(t, result.PerkUsed)
	assert.Equal(t, int64(6), result.Amount)
	assert.Equal(t, int64(6), result.Cash)
	assert.Equal(t, int64(5), result.Exp)
	assert.False(t, result.LeveledUp)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Work_LevelUp(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	user := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Exp: 4, Cash: 0}
	perk := &models.Perk{GuildID: TestGuildID, DiscordID: TestUser1ID}

	// Exp draw 1 from [1, 3] gives 2, pushing 4 exp past the threshold of 5
	rng := &fakeRand{ints: []int{0, 1}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(user, nil)
	uow.PerkRepo.On("GetOrCreate", ctx, int64(TestUser1ID)).Return(perk, nil)
	uow.UserRepo.On("Update", ctx, user).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()
	uow.Publisher.On("Publish", mock.AnythingOfType("events.LevelUpEvent")).Return()

	result, err := service.Work(ctx, TestGuildID, TestUser1ID, 1.0)

	assert.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, int64(2), user.Level)
	assert.Equal(t, int64(5), user.Exp)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Work_UserNotFound(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()
	service := NewGameService(factory, &fakeRand{})

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(nil, nil)

	result, err := service.Work(ctx, TestGuildID, TestUser1ID, 1.0)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, result)
	uow.UserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGameService_Rob_Success(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	author := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Exp: 0, Cash: 50}
	target := &models.User{GuildID: TestGuildID, DiscordID: TestUser2ID, Level: 3, Exp: 0, Cash: 100}
	perk := &models.Perk{GuildID: TestGuildID, DiscordID: TestUser1ID}

	// Steal draw 9 from [1, 20] gives 10; success roll 30 is under the
	// failure cutoff; exp draw 5 from [0, 49]
	rng := &fakeRand{ints: []int{9, 5}, floats: []float64{0.30}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(author, nil)
	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(target, nil)
	uow.PerkRepo.On("GetOrCreate", ctx, int64(TestUser1ID)).Return(perk, nil)
	uow.UserRepo.On("Update", ctx, author).Return(nil)
	uow.UserRepo.On("Update", ctx, target).Return(nil)

	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeRobSteal &&
			h.DiscordID == TestUser1ID &&
			h.ChangeAmount == 10
	})).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeRobVictim &&
			h.DiscordID == TestUser2ID &&
			h.ChangeAmount == -10
	})).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Rob(ctx, TestGuildID, TestUser1ID, TestUser2ID, 1.0)

	assert.NoError(t, err)
	assert.False(t, result.Failed)
	assert.Equal(t, int64(10), result.Amount)
	assert.Equal(t, int64(60), result.Cash)
	assert.Equal(t, int64(5), result.Exp)
	assert.Equal(t, int64(90), target.Cash)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Rob_Failure(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	author := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Exp: 0, Cash: 50}
	target := &models.User{GuildID: TestGuildID, DiscordID: TestUser2ID, Level: 3, Exp: 0, Cash: 100}
	perk := &models.Perk{GuildID: TestGuildID, DiscordID: TestUser1ID}

	// Roll 80 is over the failure cutoff
	rng := &fakeRand{ints: []int{9}, floats: []float64{0.80}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(author, nil)
	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(target, nil)
	uow.PerkRepo.On("GetOrCreate", ctx, int64(TestUser1ID)).Return(perk, nil)
	uow.UserRepo.On("Update", ctx, author).Return(nil)

	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeRobPenalty &&
			h.DiscordID == TestUser1ID &&
			h.ChangeAmount == -10
	})).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Rob(ctx, TestGuildID, TestUser1ID, TestUser2ID, 1.0)

	assert.NoError(t, err)
	assert.True(t, result.Failed)
	assert.Equal(t, int64(10), result.Amount)
	assert.Equal(t, int64(40), result.Cash)
	assert.Equal(t, int64(0), result.Exp)
	// The target is untouched on a failed attempt
	assert.Equal(t, int64(100), target.Cash)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Rob_PerkImprovesOdds(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	author := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Exp: 0, Cash: 50}
	target := &models.User{GuildID: TestGuildID, DiscordID: TestUser2ID, Level: 3, Exp: 0, Cash: 100}
	perk := &models.Perk{GuildID: TestGuildID, DiscordID: TestUser1ID, RobCharges: 1}

	// Roll 60 would fail outright, but the consumed charge shifts it to 45
	rng := &fakeRand{ints: []int{9, 5}, floats: []float64{0.60}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(author, nil)
	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(target, nil)
	uow.PerkRepo.On("GetOrCreate", ctx, int64(TestUser1ID)).Return(perk, nil)
	uow.PerkRepo.On("Update", ctx, mock.MatchedBy(func(p *models.Perk) bool {
		return p.RobCharges == 0
	})).Return(nil)
	uow.UserRepo.On("Update", ctx, author).Return(nil)
	uow.UserRepo.On("Update", ctx, target).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.Anything).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Rob(ctx, TestGuildID, TestUser1ID, TestUser2ID, 1.0)

	assert.NoError(t, err)
	assert.False(t, result.Failed)
	assert.True(t, result.PerkUsed)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Rob_TargetBroke(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	author := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Cash: 50}
	target := &models.User{GuildID: TestGuildID, DiscordID: TestUser2ID, Cash: 0}

	service := NewGameService(factory, &fakeRand{})

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(author, nil)
	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(target, nil)

	result, err := service.Rob(ctx, TestGuildID, TestUser1ID, TestUser2ID, 1.0)

	assert.ErrorIs(t, err, ErrInvalidRobTarget)
	assert.Nil(t, result)
	uow.PerkRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
}

func TestGameService_Rob_TargetNotFound(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	author := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Cash: 50}
	service := NewGameService(factory, &fakeRand{})

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(author, nil)
	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(nil, nil)

	result, err := service.Rob(ctx, TestGuildID, TestUser1ID, TestUser2ID, 1.0)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, result)
}

func TestGameService_Donate(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	author := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Exp: 0, Cash: 50}
	target := &models.User{GuildID: TestGuildID, DiscordID: TestUser2ID, Level: 2, Exp: 0, Cash: 5}

	// Exp draw 3 from [0, 64] for a donation of 20
	rng := &fakeRand{ints: []int{3}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(author, nil)
	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(target, nil)
	uow.UserRepo.On("Update", ctx, author).Return(nil)
	uow.UserRepo.On("Update", ctx, target).Return(nil)

	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeDonateOut &&
			h.DiscordID == TestUser1ID &&
			h.ChangeAmount == -20
	})).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeDonateIn &&
			h.DiscordID == TestUser2ID &&
			h.ChangeAmount == 20
	})).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Donate(ctx, TestGuildID, TestUser1ID, TestUser2ID, 20, 1.0)

	assert.NoError(t, err)
	assert.Equal(t, int64(20), result.Amount)
	assert.Equal(t, int64(30), result.Cash)
	assert.Equal(t, int64(3), result.Exp)
	assert.Equal(t, int64(25), target.Cash)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Donate_MoreThanCash(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	author := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Cash: 10}
	target := &models.User{GuildID: TestGuildID, DiscordID: TestUser2ID, Cash: 5}
	service := NewGameService(factory, &fakeRand{})

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(author, nil)
	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(target, nil)

	result, err := service.Donate(ctx, TestGuildID, TestUser1ID, TestUser2ID, 20, 1.0)

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Nil(t, result)
	assert.Equal(t, int64(10), author.Cash)
	uow.UserRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGameService_Charity_LevelsUp(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	user := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Exp: 0, Cash: 50}

	// Exp draw 7 from [0, 49] for a gift of 10, crossing the level 1
	// threshold of 5
	rng := &fakeRand{ints: []int{7}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(user, nil)
	uow.UserRepo.On("Update", ctx, user).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeCharity &&
			h.ChangeAmount == -10
	})).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()
	uow.Publisher.On("Publish", mock.AnythingOfType("events.LevelUpEvent")).Return()

	result, err := service.Charity(ctx, TestGuildID, TestUser1ID, 10, 1.0)

	assert.NoError(t, err)
	assert.Equal(t, int64(40), result.Cash)
	assert.Equal(t, int64(7), result.Exp)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, int64(2), user.Level)
	assert.Equal(t, int64(5), user.Exp)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Gamble_Win(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	user := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Cash: 100}

	// Payout draw 45 from [5, 100] gives 50; roll 90 wins
	rng := &fakeRand{ints: []int{45}, floats: []float64{0.90}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(user, nil)
	uow.UserRepo.On("Update", ctx, user).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeGambleWin &&
			h.ChangeAmount == 50 &&
			h.TransactionMetadata["stake"] == int64(50)
	})).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Gamble(ctx, TestGuildID, TestUser1ID, 50)

	assert.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, int64(50), result.Amount)
	assert.Equal(t, int64(150), result.Cash)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Gamble_LossCanExceedStake(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	user := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Level: 1, Cash: 100}

	// Payout draw 55 from [5, 100] gives 60; roll 20 loses, subtracting the
	// full resolved payout rather than the stake
	rng := &fakeRand{ints: []int{55}, floats: []float64{0.20}}
	service := NewGameService(factory, rng)

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(user, nil)
	uow.UserRepo.On("Update", ctx, user).Return(nil)
	uow.BalanceHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeGambleLoss &&
			h.ChangeAmount == -60
	})).Return(nil)
	uow.Publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	result, err := service.Gamble(ctx, TestGuildID, TestUser1ID, 50)

	assert.NoError(t, err)
	assert.False(t, result.Won)
	assert.Equal(t, int64(60), result.Amount)
	assert.Equal(t, int64(40), result.Cash)
	uow.AssertExpectationsAll(t)
}

func TestGameService_Gamble_StakeExceedsCash(t *testing.T) {
	ctx := context.Background()
	factory, uow := newTestUnitOfWork()

	user := &models.User{GuildID: TestGuildID, DiscordID: TestUser1ID, Cash: 10}
	service := NewGameService(factory, &fakeRand{})

	uow.UserRepo.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(user, nil)

	result, err := service.Gamble(ctx, TestGuildID, TestUser1ID, 50)

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Nil(t, result)
	assert.Equal(t, int64(10), user.Cash)
}
