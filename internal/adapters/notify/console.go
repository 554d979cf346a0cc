package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/junaidxd786/mememarket/internal/analytics"
	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/junaidxd786/mememarket/internal/ledger"
	"github.com/junaidxd786/mememarket/internal/tournament"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyQuotes imprime el estado del mercado en el modo configurado.
func (c *Console) NotifyQuotes(_ context.Context, quotes []domain.MarketQuote, items map[string]domain.ContentItem) error {
	if len(quotes) == 0 {
		fmt.Fprintf(c.out, "[%s] no quotes tracked\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printQuoteTable(quotes, items)
	} else {
		c.printCompact(quotes)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(quotes []domain.MarketQuote) {
	now := time.Now().Format("15:04:05")
	up, down := 0, 0
	for _, q := range quotes {
		switch q.Trend {
		case domain.TrendUp:
			up++
		case domain.TrendDown:
			down++
		}
	}
	fmt.Fprintf(c.out, "[%s] %d quotes → ▲%d ▼%d\n", now, len(quotes), up, down)
}

// printQuoteTable imprime la tabla completa de quotes por ranking.
func (c *Console) printQuoteTable(quotes []domain.MarketQuote, items map[string]domain.ContentItem) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Item", "Sub", "Price", "Δ%", "Trend", "Vol")

	for _, q := range quotes {
		title, sub := q.ItemID, "?"
		if item, ok := items[q.ItemID]; ok {
			title = domain.TruncateTitle(item.Title, item.ID, 40)
			sub = item.Subreddit
		}
		table.Append(
			fmt.Sprintf("%d", q.Ranking),
			title,
			sub,
			fmt.Sprintf("%.2f", q.CurrentPrice),
			fmt.Sprintf("%+.2f%%", q.ChangePercent),
			trendIcon(q.Trend),
			fmt.Sprintf("%d", q.Volume),
		)
	}
	table.Render()
}

// NotifyEvent imprime un evento de mercado (shock o rotación de sector).
func (c *Console) NotifyEvent(_ context.Context, ev domain.MarketEvent) error {
	now := time.Now().Format("15:04:05")
	switch ev.Kind {
	case "sector_rotation":
		fmt.Fprintf(c.out, "[%s] 🔄 sector rotated → %s (for %s)\n", now, ev.Detail, ev.Duration)
	case "crash":
		fmt.Fprintf(c.out, "[%s] 💥 MARKET CRASH: all prices %+.0f%%\n", now, ev.Impact*100)
	case "boom":
		fmt.Fprintf(c.out, "[%s] 🚀 MARKET BOOM: all prices %+.0f%%\n", now, ev.Impact*100)
	default:
		fmt.Fprintf(c.out, "[%s] market event %s (impact %+.2f)\n", now, ev.Kind, ev.Impact)
	}
	return nil
}

// PrintPortfolio imprime el resumen económico del usuario.
func (c *Console) PrintPortfolio(p *domain.Portfolio, value float64, summary ledger.EarningsSummary) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n💰 %s — balance %.2f MC | staked %.2f | value %.2f | lvl %d (%.0f xp)\n",
		p.UserID, p.Balance, p.StakedBalance, value, p.Level, p.Experience)
	fmt.Fprintf(&sb, "   winnings %.2f | spent %.2f | bonuses %.2f | staking %.2f | net %+.2f\n",
		summary.TotalWinnings, summary.TotalSpent,
		summary.DailyBonuses+summary.AchievementRewards+summary.TournamentPrizes,
		summary.StakingRewards, summary.Net)
	fmt.Fprint(c.out, sb.String())

	if len(p.Predictions) == 0 {
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Item", "Type", "Target", "TF", "Bet", "Odds", "Status")
	for _, pred := range p.Predictions {
		table.Append(
			pred.ItemID,
			string(pred.Type),
			fmt.Sprintf("%.2f", pred.TargetValue),
			string(pred.Timeframe),
			fmt.Sprintf("%.0f", pred.BetAmount),
			fmt.Sprintf("%.2f", pred.Odds),
			statusIcon(pred.Status),
		)
	}
	table.Render()
}

// PrintLeaderboard imprime la clasificación de un torneo.
func (c *Console) PrintLeaderboard(t tournament.Tournament) {
	fmt.Fprintf(c.out, "\n🏆 %s [%s] — pool %.2f MC, %d/%d players\n",
		t.Name, t.Status, t.PrizePool, len(t.Leaderboard), t.MaxParticipants)

	table := tablewriter.NewWriter(c.out)
	table.Header("Rank", "Player", "Points", "Wins", "Bets")
	for _, part := range t.Leaderboard {
		table.Append(
			fmt.Sprintf("%d", part.Rank),
			part.UserID,
			fmt.Sprintf("%d", part.Points),
			fmt.Sprintf("%d", part.Wins),
			fmt.Sprintf("%d", part.Predictions),
		)
	}
	table.Render()
}

// PrintAnalytics imprime el desglose de riesgo y subreddits.
func (c *Console) PrintAnalytics(streaks analytics.Streaks, risk analytics.RiskMetrics, subs []analytics.SubredditStats) {
	fmt.Fprintf(c.out, "\n📊 streak W%d/L%d (best W%d) | avg bet %.1f | vol %.1f | rar %.2f\n",
		streaks.CurrentWin, streaks.CurrentLoss, streaks.BestWin,
		risk.AvgActiveBetSize, risk.Volatility, risk.RiskAdjustedReturn)

	if len(subs) == 0 {
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("Subreddit", "Bets", "Win%", "AvgOdds", "Volatility", "Trend", "Call")
	for _, s := range subs {
		table.Append(
			s.Subreddit,
			fmt.Sprintf("%d", s.Bets),
			fmt.Sprintf("%.0f%%", s.WinRate*100),
			fmt.Sprintf("%.2f", s.AvgOdds),
			s.Volatility,
			s.Trend,
			strings.ToUpper(s.Recommendation),
		)
	}
	table.Render()
}

func trendIcon(t domain.Trend) string {
	switch t {
	case domain.TrendUp:
		return "▲"
	case domain.TrendDown:
		return "▼"
	default:
		return "→"
	}
}

func statusIcon(s domain.PredictionStatus) string {
	switch s {
	case domain.StatusWon:
		return "✅ won"
	case domain.StatusLost:
		return "❌ lost"
	default:
		return "⏳ active"
	}
}
