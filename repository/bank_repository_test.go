package repository

import (
	"context"
	"testing"

	"heist/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBankRepository_GetOrCreate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBankRepository(testDB.DB, testGuildID)
	ctx := context.Background()

	t.Run("creates a zero-balance row on first access", func(t *testing.T) {
		bank, err := repo.GetOrCreate(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, bank)

		assert.Equal(t, int64(testGuildID), bank.GuildID)
		assert.Equal(t, int64(0), bank.Balance)
	})

	t.Run("balance survives round trips", func(t *testing.T) {
		bank, err := repo.GetOrCreate(ctx, 123456)
		require.NoError(t, err)

		bank.Balance = 500
		require.NoError(t, repo.Update(ctx, bank))

		got, err := repo.GetOrCreate(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(500), got.Balance)
	})

	t.Run("scoped to its guild", func(t *testing.T) {
		otherGuildRepo := NewBankRepository(testDB.DB, testGuildID+1)

		bank, err := otherGuildRepo.GetOrCreate(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(0), bank.Balance)
	})
}
