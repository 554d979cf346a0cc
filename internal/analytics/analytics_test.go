package analytics

import (
	"testing"
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/stretchr/testify/assert"
)

var anNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func resolvedPred(i int, won bool, subreddit string, odds, bet float64) domain.Prediction {
	created := anNow.Add(time.Duration(i) * time.Hour)
	resolved := created.Add(time.Hour)
	status := domain.StatusLost
	if won {
		status = domain.StatusWon
	}
	return domain.Prediction{
		ID:         "p",
		Subreddit:  subreddit,
		BetAmount:  bet,
		Odds:       odds,
		Status:     status,
		CreatedAt:  created,
		ResolvedAt: &resolved,
	}
}

func TestComputeStreaks(t *testing.T) {
	p := &domain.Portfolio{Predictions: []domain.Prediction{
		resolvedPred(0, true, "memes", 2, 50),
		resolvedPred(1, true, "memes", 2, 50),
		resolvedPred(2, false, "memes", 2, 50),
		resolvedPred(3, true, "memes", 2, 50),
		resolvedPred(4, true, "memes", 2, 50),
		resolvedPred(5, true, "memes", 2, 50),
	}}

	s := ComputeStreaks(p)
	assert.Equal(t, 3, s.CurrentWin)
	assert.Equal(t, 0, s.CurrentLoss)
	assert.Equal(t, 3, s.BestWin)
	assert.Equal(t, 1, s.WorstLoss)
}

func TestComputeStreaks_CurrentLoss(t *testing.T) {
	p := &domain.Portfolio{Predictions: []domain.Prediction{
		resolvedPred(0, true, "memes", 2, 50),
		resolvedPred(1, false, "memes", 2, 50),
		resolvedPred(2, false, "memes", 2, 50),
	}}

	s := ComputeStreaks(p)
	assert.Equal(t, 0, s.CurrentWin)
	assert.Equal(t, 2, s.CurrentLoss)
}

func TestComputeStreaks_Empty(t *testing.T) {
	assert.Equal(t, Streaks{}, ComputeStreaks(&domain.Portfolio{}))
}

func TestAnalyzeSubreddits(t *testing.T) {
	p := &domain.Portfolio{Predictions: []domain.Prediction{
		resolvedPred(0, true, "memes", 2.0, 50),
		resolvedPred(1, true, "memes", 3.0, 50),
		resolvedPred(2, true, "memes", 2.5, 50),
		resolvedPred(3, false, "memes", 2.5, 50),
		resolvedPred(4, false, "cats", 4.0, 50),
	}}

	stats := AnalyzeSubreddits(p)
	assert.Len(t, stats, 2)

	memes := stats[0]
	assert.Equal(t, "memes", memes.Subreddit)
	assert.Equal(t, 4, memes.Bets)
	assert.InDelta(t, 0.75, memes.WinRate, 0.001)
	assert.InDelta(t, 2.5, memes.AvgOdds, 0.001)
	assert.Equal(t, "low", memes.Volatility)   // > 0.70
	assert.Equal(t, "rising", memes.Trend)     // > 0.60
	assert.Equal(t, "buy", memes.Recommendation)

	cats := stats[1]
	assert.Equal(t, "high", cats.Volatility)
	assert.Equal(t, "falling", cats.Trend)
	assert.Equal(t, "sell", cats.Recommendation)
}

func TestComputeRisk(t *testing.T) {
	p := &domain.Portfolio{Predictions: []domain.Prediction{
		resolvedPred(0, true, "memes", 3.0, 100),  // PnL +200
		resolvedPred(1, false, "memes", 2.0, 100), // PnL −100
		{ID: "a1", Status: domain.StatusActive, BetAmount: 40, CreatedAt: anNow},
		{ID: "a2", Status: domain.StatusActive, BetAmount: 60, CreatedAt: anNow},
	}}

	m := ComputeRisk(p)
	assert.InDelta(t, 50, m.AvgActiveBetSize, 0.001)
	assert.InDelta(t, 50, m.MeanPnL, 0.001) // (200−100)/2
	assert.InDelta(t, 150, m.Volatility, 0.001)
	assert.InDelta(t, 50.0/150.0, m.RiskAdjustedReturn, 0.001)
}

func TestComputeRisk_DegradesToZero(t *testing.T) {
	m := ComputeRisk(&domain.Portfolio{})
	assert.Zero(t, m.AvgActiveBetSize)
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.RiskAdjustedReturn)
}

func TestComputeRisk_ZeroVolatility(t *testing.T) {
	// Two identical outcomes ⇒ variance 0 ⇒ risk-adjusted return 0, not NaN.
	p := &domain.Portfolio{Predictions: []domain.Prediction{
		resolvedPred(0, false, "memes", 2.0, 100),
		resolvedPred(1, false, "memes", 2.0, 100),
	}}
	m := ComputeRisk(p)
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.RiskAdjustedReturn)
}

func TestComputeFrequency(t *testing.T) {
	p := &domain.Portfolio{Predictions: []domain.Prediction{
		{ID: "1", CreatedAt: anNow},                     // Sunday 12:00
		{ID: "2", CreatedAt: anNow.Add(time.Hour)},      // 13:00
		{ID: "3", CreatedAt: anNow.Add(time.Hour)},      // 13:00
		{ID: "4", CreatedAt: anNow.Add(50 * time.Hour)}, // Tuesday 14:00
	}}

	f := ComputeFrequency(p)
	assert.InDelta(t, 4/(50.0/24.0), f.BetsPerDay, 0.001)
	assert.Equal(t, 13, f.MostActiveHour)
	assert.Equal(t, "Sunday", f.MostActiveDay)
}

func TestComputeFrequency_Empty(t *testing.T) {
	assert.Equal(t, Frequency{}, ComputeFrequency(&domain.Portfolio{}))
}
