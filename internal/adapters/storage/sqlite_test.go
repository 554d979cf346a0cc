package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/junaidxd786/mememarket/internal/adapters/storage"
	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePortfolio(userID string) *domain.Portfolio {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	p := domain.NewPortfolio(userID, now)
	p.Balance = 875.50
	p.Experience = 42
	p.Level = 1
	p.Predictions = []domain.Prediction{{
		ID:            "pred-1",
		UserID:        userID,
		ItemID:        "abc123",
		Subreddit:     "memes",
		Type:          domain.PredictMilestoneReach,
		TargetValue:   2000,
		Timeframe:     domain.TimeframeLong,
		BetAmount:     100,
		Odds:          3.25,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		BaselineValue: 1000,
	}}
	p.Achievements = []domain.Achievement{{
		ID: "first_bet", Name: "Skin in the Game",
		Rarity: domain.RarityCommon, Reward: 25, UnlockedAt: now,
	}}
	return p
}

func TestSQLiteStore_SaveAndLoad(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	original := makePortfolio("u1")
	require.NoError(t, store.Save(ctx, original))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSQLiteStore_LoadUnknownUser(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteStore_SaveIsUpsert(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	p := makePortfolio("u1")
	require.NoError(t, store.Save(ctx, p))

	p.Balance = 50
	p.Predictions[0].Status = domain.StatusWon
	require.NoError(t, store.Save(ctx, p))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 50, loaded.Balance, 0.001)
	assert.Equal(t, domain.StatusWon, loaded.Predictions[0].Status)
}
