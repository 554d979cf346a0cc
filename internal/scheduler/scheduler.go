package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/junaidxd786/mememarket/internal/ledger"
	"github.com/junaidxd786/mememarket/internal/market"
	"github.com/junaidxd786/mememarket/internal/ports"
	"github.com/junaidxd786/mememarket/internal/rng"
	"github.com/robfig/cron/v3"
)

// Scheduler manages all recurring market jobs.
type Scheduler struct {
	Cron     *cron.Cron
	Sim      *market.Simulator
	Book     *ledger.Book
	Provider ports.ContentProvider
	Notifier ports.Notifier
	Rand     rng.Source
	Ctx      context.Context

	Users       []string
	Subreddit   string
	FetchLimit  int
	ShockChance float64 // probability per check, 0 disables shocks
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sim *market.Simulator, book *ledger.Book, provider ports.ContentProvider, notifier ports.Notifier, src rng.Source) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Sim:      sim,
		Book:     book,
		Provider: provider,
		Notifier: notifier,
		Rand:     src,
		Ctx:      ctx,
	}
}

// RegisterAll registers the tick, rotation, refresh and shock jobs.
func (s *Scheduler) RegisterAll(tickCron, rotateCron, refreshCron, shockCron string) error {
	if _, err := s.Cron.AddFunc(tickCron, s.tickTask); err != nil {
		return fmt.Errorf("scheduler.RegisterAll: register tick: %w", err)
	}
	if _, err := s.Cron.AddFunc(rotateCron, s.rotateTask); err != nil {
		return fmt.Errorf("scheduler.RegisterAll: register rotation: %w", err)
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("scheduler.RegisterAll: register refresh: %w", err)
	}
	if _, err := s.Cron.AddFunc(shockCron, s.shockTask); err != nil {
		return fmt.Errorf("scheduler.RegisterAll: register shock: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	slog.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.Cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

// RunCycleNow executes one refresh+tick cycle immediately (for -once mode).
func (s *Scheduler) RunCycleNow() {
	s.refreshTask()
	s.tickTask()
}

func (s *Scheduler) tickTask() {
	s.Sim.Tick()

	quotes := s.Sim.AllQuotes()
	items := make(map[string]domain.ContentItem, len(quotes))
	for _, q := range quotes {
		if item, ok := s.Sim.Item(q.ItemID); ok {
			items[q.ItemID] = item
		}
	}
	if err := s.Notifier.NotifyQuotes(s.Ctx, quotes, items); err != nil {
		slog.Error("notify quotes", "error", err)
	}
}

func (s *Scheduler) rotateTask() {
	ev := s.Sim.RotateSector()
	slog.Info("sector rotated", "sector", ev.Detail)
	if err := s.Notifier.NotifyEvent(s.Ctx, ev); err != nil {
		slog.Error("notify event", "error", err)
	}
}

// refreshTask pulls fresh content, seeds quotes for new items, updates
// tracked ones, and sweeps every registered user's pending predictions
// against the new data.
func (s *Scheduler) refreshTask() {
	fresh, err := s.Provider.FetchTrending(s.Ctx, s.Subreddit, s.FetchLimit)
	if err != nil {
		slog.Error("fetch trending", "subreddit", s.Subreddit, "error", err)
	} else {
		seeded := 0
		for _, item := range fresh {
			if _, ok := s.Sim.Quote(item.ID); ok {
				s.Sim.UpdateItem(item)
			} else {
				s.Sim.InitializeQuote(item)
				seeded++
			}
		}
		slog.Debug("content refreshed", "items", len(fresh), "seeded", seeded)
	}

	items := make(map[string]domain.ContentItem)
	quotes := make(map[string]domain.MarketQuote)
	for _, q := range s.Sim.AllQuotes() {
		quotes[q.ItemID] = q
		if item, ok := s.Sim.Item(q.ItemID); ok {
			items[q.ItemID] = item
		}
	}

	for _, userID := range s.Users {
		report, err := s.Book.ResolveAll(s.Ctx, userID, items, quotes)
		if err != nil {
			slog.Error("resolve sweep", "user", userID, "error", err)
			continue
		}
		if report.Won+report.Lost+report.Expired > 0 {
			slog.Info("predictions resolved",
				"user", userID,
				"won", report.Won,
				"lost", report.Lost,
				"expired", report.Expired,
				"credited", report.Credited)
		}
	}
}

// shockTask rolls the dice on a random market shock.
func (s *Scheduler) shockTask() {
	if s.ShockChance <= 0 || s.Rand.Float64() >= s.ShockChance {
		return
	}
	kind := domain.ShockCrash
	if s.Rand.IntN(2) == 1 {
		kind = domain.ShockBoom
	}
	ev, err := s.Sim.ApplyShock(kind)
	if err != nil {
		slog.Error("apply shock", "kind", kind, "error", err)
		return
	}
	slog.Warn("market shock", "kind", ev.Kind, "impact", ev.Impact)
	if err := s.Notifier.NotifyEvent(s.Ctx, ev); err != nil {
		slog.Error("notify event", "error", err)
	}
}
