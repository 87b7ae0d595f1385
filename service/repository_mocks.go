package service

import (
	"context"

	"heist/events"
	"heist/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetForUpdate(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockPerkRepository is a mock implementation of PerkRepository
type MockPerkRepository struct {
	mock.Mock
}

func (m *MockPerkRepository) GetOrCreate(ctx context.Context, discordID int64) (*models.Perk, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Perk), args.Error(1)
}

func (m *MockPerkRepository) Update(ctx context.Context, perk *models.Perk) error {
	args := m.Called(ctx, perk)
	return args.Error(0)
}

// MockBankRepository is a mock implementation of BankRepository
type MockBankRepository struct {
	mock.Mock
}

func (m *MockBankRepository) GetOrCreate(ctx context.Context, discordID int64) (*models.Bank, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bank), args.Error(1)
}

func (m *MockBankRepository) Update(ctx context.Context, bank *models.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the mocks assigned to the struct fields rather than going through
// testify expectations.
type MockUnitOfWork struct {
	mock.Mock

	UserRepo           *MockUserRepository
	PerkRepo           *MockPerkRepository
	BankRepo           *MockBankRepository
	BalanceHistoryRepo *MockBalanceHistoryRepository
	Publisher          *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with fresh repository mocks and
// Begin/Commit/Rollback wired to succeed.
func NewMockUnitOfWork() *MockUnitOfWork {
	uow := &MockUnitOfWork{
		UserRepo:           new(MockUserRepository),
		PerkRepo:           new(MockPerkRepository),
		BankRepo:           new(MockBankRepository),
		BalanceHistoryRepo: new(MockBalanceHistoryRepository),
		Publisher:          new(MockEventPublisher),
	}
	uow.On("Begin", mock.Anything).Return(nil).Maybe()
	uow.On("Commit").Return(nil).Maybe()
	uow.On("Rollback").Return(nil).Maybe()
	return uow
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.UserRepo
}

func (m *MockUnitOfWork) PerkRepository() PerkRepository {
	return m.PerkRepo
}

func (m *MockUnitOfWork) BankRepository() BankRepository {
	return m.BankRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.BalanceHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.Publisher
}

// AssertExpectationsAll asserts expectations on the unit of work and every
// repository mock it holds.
func (m *MockUnitOfWork) AssertExpectationsAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.UserRepo.AssertExpectations(t)
	m.PerkRepo.AssertExpectations(t)
	m.BankRepo.AssertExpectations(t)
	m.BalanceHistoryRepo.AssertExpectations(t)
	m.Publisher.AssertExpectations(t)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	args := m.Called(guildID)
	return args.Get(0).(UnitOfWork)
}
