package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"heist/events"
	"heist/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsChanges(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))

	user, err := uow.UserRepository().Create(ctx, 123456)
	require.NoError(t, err)

	user.Cash = 75
	require.NoError(t, uow.UserRepository().Update(ctx, user))
	require.NoError(t, uow.Commit())

	// Visible outside the transaction after commit
	repo := NewUserRepository(testDB.DB, testGuildID)
	got, err := repo.GetByDiscordID(ctx, 123456)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(75), got.Cash)
}

func TestUnitOfWork_RollbackDiscardsChanges(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.UserRepository().Create(ctx, 123456)
	require.NoError(t, err)
	require.NoError(t, uow.Rollback())

	repo := NewUserRepository(testDB.DB, testGuildID)
	got, err := repo.GetByDiscordID(ctx, 123456)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnitOfWork_RollbackAfterCommitIsNoOp(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.UserRepository().Create(ctx, 123456)
	require.NoError(t, err)
	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}

func TestUnitOfWork_EventsFlushOnCommitOnly(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()

	var mu sync.Mutex
	var received []events.Event
	bus.Subscribe(events.EventTypeUserRegistered, func(ctx context.Context, e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	// Published then rolled back: the handler must never see the event
	uow := factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.UserRegisteredEvent{GuildID: testGuildID, DiscordID: 111111})
	require.NoError(t, uow.Rollback())

	// Published then committed: the handler sees exactly this event
	uow = factory.CreateForGuild(testGuildID)
	require.NoError(t, uow.Begin(ctx))
	uow.EventBus().Publish(events.UserRegisteredEvent{GuildID: testGuildID, DiscordID: 222222})
	require.NoError(t, uow.Commit())

	// Handlers run asynchronously
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	event, ok := received[0].(events.UserRegisteredEvent)
	require.True(t, ok)
	assert.Equal(t, int64(222222), event.DiscordID)
}
