package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/junaidxd786/mememarket/config"
	"github.com/junaidxd786/mememarket/internal/adapters/notify"
	"github.com/junaidxd786/mememarket/internal/adapters/reddit"
	"github.com/junaidxd786/mememarket/internal/adapters/storage"
	"github.com/junaidxd786/mememarket/internal/analytics"
	"github.com/junaidxd786/mememarket/internal/ledger"
	"github.com/junaidxd786/mememarket/internal/market"
	"github.com/junaidxd786/mememarket/internal/rng"
	"github.com/junaidxd786/mememarket/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one market cycle and exit")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-seeded, overrides config)")
	user := flag.String("user", "default", "user id to track")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full quote table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("mememarket starting",
		"config", *configPath,
		"subreddit", cfg.Market.Subreddit,
		"once", *once,
		"user", *user,
	)

	if *seed != 0 {
		cfg.Market.Seed = *seed
	}
	var src rng.Source
	if cfg.Market.Seed != 0 {
		src = rng.New(cfg.Market.Seed)
	} else {
		src = rng.NewTimeSeeded()
	}

	provider := reddit.NewClient(cfg.Provider.BaseURL, cfg.Provider.UserAgent)

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	sim := market.New(src)
	book := ledger.NewBook(store)
	notifier := notify.NewConsole(*table || *once)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, sim, book, provider, notifier, src)
	sched.Users = []string{*user}
	sched.Subreddit = cfg.Market.Subreddit
	sched.FetchLimit = cfg.Market.FetchLimit
	sched.ShockChance = cfg.Market.ShockChance

	if *once {
		sched.RunCycleNow()
		printUserReport(ctx, book, notifier, *user)
		slog.Info("mememarket stopped cleanly")
		return
	}

	if err := sched.RegisterAll(cfg.Market.TickCron, cfg.Market.RotateCron, cfg.Market.RefreshCron, cfg.Market.ShockCron); err != nil {
		slog.Error("failed to register jobs", "err", err)
		os.Exit(1)
	}
	sched.Start()

	<-ctx.Done()
	sched.Stop()
	slog.Info("mememarket stopped cleanly")
}

func printUserReport(ctx context.Context, book *ledger.Book, notifier *notify.Console, userID string) {
	p := book.Get(ctx, userID)
	notifier.PrintPortfolio(p, book.PortfolioValue(ctx, userID), book.Summarize(ctx, userID))
	notifier.PrintAnalytics(
		analytics.ComputeStreaks(p),
		analytics.ComputeRisk(p),
		analytics.AnalyzeSubreddits(p),
	)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
