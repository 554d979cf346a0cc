package market

import (
	"testing"
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/junaidxd786/mememarket/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var simNow = time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

// specItem is the reference scenario: score=1000, comments=50, 24h old,
// r/memes. With midpoint randomness and a non-matching sector:
//
//	base  = min(1000×0.1, 100) + log10(51)×5 ≈ 108.5379
//	price = 108.5379 × 1.0 × 1.3 × 1.2 × 1.0 ≈ 169.32
func specItem() domain.ContentItem {
	return domain.ContentItem{
		ID:           "abc123",
		Title:        "perfectly calibrated meme title here", // 36 chars: sweet spot
		Score:        1000,
		CommentCount: 50,
		CreatedAt:    simNow.Add(-24 * time.Hour),
		Subreddit:    "memes",
	}
}

// newMidpointSim returns a simulator with constant-midpoint randomness,
// a frozen clock and the sector rotated to one that does not match r/memes.
func newMidpointSim() *Simulator {
	s := New(rng.Fixed{V: 0.5})
	s.now = func() time.Time { return simNow }
	s.RotateSector() // dank
	s.RotateSector() // wholesome: no "memes" keyword → multiplier 1.0
	return s
}

func TestInitializeQuote_DeterministicAtMidpoint(t *testing.T) {
	q1 := newMidpointSim().InitializeQuote(specItem())
	q2 := newMidpointSim().InitializeQuote(specItem())

	assert.Equal(t, q1.CurrentPrice, q2.CurrentPrice)
	assert.InDelta(t, 169.32, q1.CurrentPrice, 0.01)

	// Upper bound derivable from the formula: capped score term, peak
	// freshness, max quality and max jitter.
	upper := (100 + 8.54) * 1.3 * 1.2 * 1.1 * 1.05 * 1.15
	assert.Greater(t, q1.CurrentPrice, MinPrice)
	assert.Less(t, q1.CurrentPrice, upper)
}

func TestInitializeQuote_IdempotentPerItem(t *testing.T) {
	s := newMidpointSim()
	q1 := s.InitializeQuote(specItem())
	q2 := s.InitializeQuote(specItem())
	assert.Equal(t, q1, q2)
}

func TestInitializeQuote_FloorsTinyItems(t *testing.T) {
	s := New(rng.New(7))
	s.now = func() time.Time { return simNow }

	q := s.InitializeQuote(domain.ContentItem{
		ID:        "tiny",
		Score:     0,
		CreatedAt: simNow.Add(-200 * time.Hour), // stale: freshness 0.5
		Subreddit: "obscure_sub",
	})
	assert.GreaterOrEqual(t, q.CurrentPrice, MinPrice)
}

func TestTick_PriceFloorOverManyTicks(t *testing.T) {
	clock := simNow
	s := New(rng.New(42))
	s.now = func() time.Time { return clock }

	s.InitializeQuote(specItem())
	s.InitializeQuote(domain.ContentItem{ID: "low", Score: 5, CreatedAt: simNow.Add(-100 * time.Hour)})

	for i := 0; i < 500; i++ {
		clock = clock.Add(30 * time.Second)
		s.Tick()
		for _, q := range s.AllQuotes() {
			require.GreaterOrEqual(t, q.CurrentPrice, MinPrice, "tick %d", i)
		}
	}
}

func TestTick_NoElapsedTimeIsNoOp(t *testing.T) {
	s := newMidpointSim()
	q0 := s.InitializeQuote(specItem())

	s.Tick() // clock frozen ⇒ dt=0 ⇒ skip
	q1, ok := s.Quote("abc123")
	require.True(t, ok)
	assert.Equal(t, q0.CurrentPrice, q1.CurrentPrice)
	assert.Equal(t, q0.Volume, q1.Volume)
}

func TestTick_UpdatesTrendAndChangePercent(t *testing.T) {
	clock := simNow
	s := New(rng.New(1))
	s.now = func() time.Time { return clock }
	s.InitializeQuote(specItem())

	clock = clock.Add(30 * time.Second)
	s.Tick()

	q, ok := s.Quote("abc123")
	require.True(t, ok)
	assert.Equal(t, domain.TrendOf(q.CurrentPrice, q.PreviousPrice), q.Trend)
	if q.PreviousPrice > 0 {
		expected := (q.CurrentPrice - q.PreviousPrice) / q.PreviousPrice * 100
		assert.InDelta(t, expected, q.ChangePercent, 0.0001)
	}
	assert.Equal(t, clock, q.LastUpdated)
}

func TestApplyShock_Crash(t *testing.T) {
	s := newMidpointSim()
	q0 := s.InitializeQuote(specItem())

	ev, err := s.ApplyShock(domain.ShockCrash)
	require.NoError(t, err)
	assert.Equal(t, "crash", ev.Kind)
	assert.Negative(t, ev.Impact)
	assert.NotEmpty(t, ev.ID)

	q, _ := s.Quote("abc123")
	assert.InDelta(t, q0.CurrentPrice*0.75, q.CurrentPrice, 0.01)
	assert.Equal(t, q0.CurrentPrice, q.PreviousPrice)
	assert.Equal(t, domain.TrendDown, q.Trend)
}

func TestApplyShock_Boom(t *testing.T) {
	s := newMidpointSim()
	q0 := s.InitializeQuote(specItem())

	ev, err := s.ApplyShock(domain.ShockBoom)
	require.NoError(t, err)
	assert.Positive(t, ev.Impact)

	q, _ := s.Quote("abc123")
	assert.InDelta(t, q0.CurrentPrice*1.30, q.CurrentPrice, 0.01)
	assert.Equal(t, domain.TrendUp, q.Trend)
}

func TestApplyShock_UnknownKind(t *testing.T) {
	s := newMidpointSim()
	_, err := s.ApplyShock(domain.ShockKind("sideways"))
	assert.True(t, domain.IsValidation(err))
}

func TestRotateSector_CyclesAndWraps(t *testing.T) {
	s := New(rng.Fixed{V: 0.5})
	s.now = func() time.Time { return simNow }

	first := s.ActiveSector().ID
	seen := map[string]bool{first: true}
	for i := 0; i < len(defaultSectors)-1; i++ {
		s.RotateSector()
		seen[s.ActiveSector().ID] = true
	}
	assert.Len(t, seen, len(defaultSectors))

	s.RotateSector()
	assert.Equal(t, first, s.ActiveSector().ID, "rotation wraps back to start")
	assert.Equal(t, simNow.Add(SectorDuration), s.ActiveSector().ActiveUntil)
}

func TestRankings_DescendingByPrice(t *testing.T) {
	s := newMidpointSim()
	s.InitializeQuote(specItem()) // expensive
	s.InitializeQuote(domain.ContentItem{ID: "cheap", Score: 10, CreatedAt: simNow.Add(-90 * time.Hour)})

	top, _ := s.Quote("abc123")
	bottom, _ := s.Quote("cheap")
	assert.Equal(t, 1, top.Ranking)
	assert.Equal(t, 2, bottom.Ranking)
}

func TestUnknownItem_NoOps(t *testing.T) {
	s := newMidpointSim()

	_, ok := s.Quote("ghost")
	assert.False(t, ok)

	// None of these should panic or create state.
	s.UpdateItem(domain.ContentItem{ID: "ghost"})
	s.Untrack("ghost")
	assert.Empty(t, s.AllQuotes())
}
