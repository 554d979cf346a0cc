// Package market owns the quote store and the synthetic price simulation.
// One MarketQuote per tracked ContentItem; the Simulator is the only
// writer, everything else reads copies under the same lock.
package market

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/junaidxd786/mememarket/internal/rng"
)

const (
	// MinPrice is the absolute floor for any quote.
	MinPrice = 1.0

	maxScoreValue = 100.0 // score term cap (diminishing returns)
	scorePerPoint = 0.1
	commentWeight = 5.0
	jitterRange   = 0.15 // ±15% on initial pricing

	baseVolatility   = 0.02
	randomVolatility = 0.03
	trendBias        = 0.001 // small upward drift per reference tick
	maxTickChange    = 0.50  // relative change clamp per tick
	referenceTick    = 30 * time.Second
	maxTickScale     = 6.0 // a stalled simulator catches up at most 6 ticks worth

	volumeBaseIncrement = 50
	volumeRandIncrement = 500

	crashImpact   = -0.25
	boomImpact    = 0.30
	shockDuration = 5 * time.Minute

	// SectorDuration is how long each thematic window stays active.
	SectorDuration = 2 * time.Hour
)

// defaultSectors is the fixed cyclic rotation order.
var defaultSectors = []domain.MarketSector{
	{ID: "classic", Name: "Classic Memes", Multiplier: 1.2, Keywords: []string{"memes", "funny"}},
	{ID: "dank", Name: "Dank Zone", Multiplier: 1.4, Keywords: []string{"dank", "dankmemes"}},
	{ID: "wholesome", Name: "Wholesome Hour", Multiplier: 1.1, Keywords: []string{"wholesome", "aww"}},
	{ID: "tech", Name: "Tech Humor", Multiplier: 1.3, Keywords: []string{"programmer", "tech", "linux"}},
	{ID: "gaming", Name: "Gaming Corner", Multiplier: 1.15, Keywords: []string{"gaming", "games"}},
}

// Simulator owns and evolves one quote per tracked item.
// All methods are safe for concurrent use; a tick can never interleave
// with a resolution read of the same quote.
type Simulator struct {
	mu      sync.Mutex
	quotes  map[string]*domain.MarketQuote
	items   map[string]domain.ContentItem
	sectors []domain.MarketSector
	sector  int // index into sectors
	rand    rng.Source
	now     func() time.Time
}

// New creates a Simulator with the default sector rotation.
func New(src rng.Source) *Simulator {
	s := &Simulator{
		quotes:  make(map[string]*domain.MarketQuote),
		items:   make(map[string]domain.ContentItem),
		sectors: append([]domain.MarketSector(nil), defaultSectors...),
		rand:    src,
		now:     time.Now,
	}
	s.sectors[0].ActiveUntil = s.now().Add(SectorDuration)
	return s
}

// InitializeQuote computes the initial price for an item and starts
// tracking it. Calling it again for a tracked item returns the existing
// quote unchanged.
//
// Price composite:
//
//	base    = min(score×0.1, 100) + log10(comments+1)×5
//	price   = base × freshness × subreddit × sector × quality × jitter
//	jitter  = 1 + (rand×2−1)×0.15
//
// floored at MinPrice and rounded to 2 decimals.
func (s *Simulator) InitializeQuote(item domain.ContentItem) domain.MarketQuote {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.quotes[item.ID]; ok {
		return *q
	}

	now := s.now()

	scoreTerm := math.Min(float64(item.Score)*scorePerPoint, maxScoreValue)
	commentTerm := math.Log10(float64(item.CommentCount)+1) * commentWeight
	base := scoreTerm + commentTerm

	sectorMult := 1.0
	if s.sectors[s.sector].Matches(item) {
		sectorMult = s.sectors[s.sector].Multiplier
	}

	jitter := 1 + (s.rand.Float64()*2-1)*jitterRange

	price := base *
		freshness(item.AgeHours(now)) *
		domain.SubredditMultiplier(item.Subreddit) *
		sectorMult *
		quality(item) *
		jitter

	price = floorRound(price)

	q := &domain.MarketQuote{
		ItemID:        item.ID,
		CurrentPrice:  price,
		PreviousPrice: price,
		Volume:        int64(100 + s.rand.IntN(900)),
		Trend:         domain.TrendStable,
		LastUpdated:   now,
	}
	s.quotes[item.ID] = q
	s.items[item.ID] = item
	s.recomputeRankings()
	return *q
}

// UpdateItem refreshes the tracked snapshot for an item (new score and
// comment count from the provider). Unknown items are ignored.
func (s *Simulator) UpdateItem(item domain.ContentItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok {
		s.items[item.ID] = item
	}
}

// Tick advances every tracked quote. Safe to call at any cadence: the
// magnitude of the move is scaled by the elapsed time since the quote's
// LastUpdated, not by call count.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sectorMult := s.sectors[s.sector].Multiplier

	for _, q := range s.quotes {
		dt := now.Sub(q.LastUpdated)
		if dt <= 0 {
			continue
		}
		scale := math.Min(dt.Seconds()/referenceTick.Seconds(), maxTickScale)

		volatility := (baseVolatility + s.rand.Float64()*randomVolatility) * sectorMult
		walk := (s.rand.Float64()*2 - 1) * volatility * scale
		change := walk + trendBias*scale

		if change > maxTickChange {
			change = maxTickChange
		} else if change < -maxTickChange {
			change = -maxTickChange
		}

		q.PreviousPrice = q.CurrentPrice
		q.CurrentPrice = floorRound(q.CurrentPrice * (1 + change))
		q.ChangePercent = changePercent(q.CurrentPrice, q.PreviousPrice)
		q.Trend = domain.TrendOf(q.CurrentPrice, q.PreviousPrice)
		q.Volume += int64(volumeBaseIncrement + s.rand.IntN(volumeRandIncrement))
		q.LastUpdated = now
	}

	s.recomputeRankings()
}

// ApplyShock multiplies every tracked price by (1 + impact) and returns
// the MarketEvent for the caller to display. Unknown kinds are rejected.
func (s *Simulator) ApplyShock(kind domain.ShockKind) (domain.MarketEvent, error) {
	var impact float64
	switch kind {
	case domain.ShockCrash:
		impact = crashImpact
	case domain.ShockBoom:
		impact = boomImpact
	default:
		return domain.MarketEvent{}, domain.NewValidationError("kind", "must be crash or boom")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, q := range s.quotes {
		q.PreviousPrice = q.CurrentPrice
		q.CurrentPrice = floorRound(q.CurrentPrice * (1 + impact))
		q.ChangePercent = changePercent(q.CurrentPrice, q.PreviousPrice)
		q.Trend = domain.TrendOf(q.CurrentPrice, q.PreviousPrice)
		q.LastUpdated = now
	}
	s.recomputeRankings()

	return domain.MarketEvent{
		ID:        uuid.New().String(),
		Kind:      string(kind),
		Impact:    impact,
		Duration:  shockDuration,
		CreatedAt: now,
	}, nil
}

// RotateSector advances to the next sector in the fixed cyclic order.
func (s *Simulator) RotateSector() domain.MarketEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sector = (s.sector + 1) % len(s.sectors)
	s.sectors[s.sector].ActiveUntil = now.Add(SectorDuration)

	return domain.MarketEvent{
		ID:        uuid.New().String(),
		Kind:      "sector_rotation",
		Duration:  SectorDuration,
		CreatedAt: now,
		Detail:    s.sectors[s.sector].Name,
	}
}

// ActiveSector returns a copy of the currently active sector.
func (s *Simulator) ActiveSector() domain.MarketSector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sectors[s.sector]
}

// Quote returns a copy of the quote for the item, if tracked.
func (s *Simulator) Quote(itemID string) (domain.MarketQuote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[itemID]
	if !ok {
		return domain.MarketQuote{}, false
	}
	return *q, true
}

// AllQuotes returns copies of every tracked quote, best ranking first.
func (s *Simulator) AllQuotes() []domain.MarketQuote {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.MarketQuote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ranking < out[j].Ranking })
	return out
}

// Item returns the tracked snapshot for an item, if any.
func (s *Simulator) Item(itemID string) (domain.ContentItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	return it, ok
}

// Untrack drops an item and its quote. Unknown IDs are a no-op.
func (s *Simulator) Untrack(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, itemID)
	delete(s.items, itemID)
	s.recomputeRankings()
}

// recomputeRankings assigns 1..N by descending price across all tracked
// quotes. Caller must hold the lock.
func (s *Simulator) recomputeRankings() {
	ids := make([]string, 0, len(s.quotes))
	for id := range s.quotes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		qi, qj := s.quotes[ids[i]], s.quotes[ids[j]]
		if qi.CurrentPrice != qj.CurrentPrice {
			return qi.CurrentPrice > qj.CurrentPrice
		}
		return ids[i] < ids[j]
	})
	for rank, id := range ids {
		s.quotes[id].Ranking = rank + 1
	}
}

// freshness peaks at 1.0 for a 24h-old post and decays outside the band.
func freshness(ageHours float64) float64 {
	switch {
	case ageHours <= 24:
		return 0.6 + 0.4*ageHours/24
	case ageHours <= 72:
		return 1.0 - 0.5*(ageHours-24)/48
	default:
		return 0.5
	}
}

// quality rewards a title in the 20–80 char sweet spot and the presence
// of image or text content.
func quality(item domain.ContentItem) float64 {
	q := 1.0
	if n := len(item.Title); n >= 20 && n <= 80 {
		q = 1.2
	}
	if item.HasImage() {
		q *= 1.1
	}
	if item.Selftext != "" {
		q *= 1.05
	}
	return q
}

func floorRound(price float64) float64 {
	if price < MinPrice {
		return MinPrice
	}
	return math.Round(price*100) / 100
}

func changePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
