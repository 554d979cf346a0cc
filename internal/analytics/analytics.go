// Package analytics computes read-only derived statistics over a
// Portfolio. Nothing here mutates ledger state; every metric degrades
// to zeroed defaults on empty or pathological input.
package analytics

import (
	"math"
	"sort"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// Streaks is the win/loss streak summary over resolved predictions.
type Streaks struct {
	CurrentWin  int
	CurrentLoss int
	BestWin     int
	WorstLoss   int
}

// ComputeStreaks scans resolved predictions in chronological order.
// The "current" streak is measured from the most recent resolved
// prediction backwards.
func ComputeStreaks(p *domain.Portfolio) Streaks {
	resolved := p.ResolvedPredictions()
	var s Streaks

	win, loss := 0, 0
	for _, pred := range resolved {
		if pred.Status == domain.StatusWon {
			win++
			loss = 0
		} else {
			loss++
			win = 0
		}
		if win > s.BestWin {
			s.BestWin = win
		}
		if loss > s.WorstLoss {
			s.WorstLoss = loss
		}
	}

	for i := len(resolved) - 1; i >= 0; i-- {
		if resolved[i].Status != domain.StatusWon {
			break
		}
		s.CurrentWin++
	}
	if s.CurrentWin == 0 {
		for i := len(resolved) - 1; i >= 0; i-- {
			if resolved[i].Status != domain.StatusLost {
				break
			}
			s.CurrentLoss++
		}
	}
	return s
}

// Volatility classification thresholds by win rate.
const (
	lowVolatilityWinRate    = 0.70
	mediumVolatilityWinRate = 0.40
	risingTrendWinRate      = 0.60
	fallingTrendWinRate     = 0.30
)

// SubredditStats is the per-subreddit breakdown of resolved bets.
type SubredditStats struct {
	Subreddit      string
	Bets           int
	Wins           int
	WinRate        float64
	AvgOdds        float64
	Volatility     string // "low" | "medium" | "high"
	Trend          string // "rising" | "stable" | "falling"
	Recommendation string // "buy" | "hold" | "sell"
}

// AnalyzeSubreddits groups resolved predictions by subreddit, sorted by
// bet count descending.
func AnalyzeSubreddits(p *domain.Portfolio) []SubredditStats {
	groups := make(map[string][]domain.Prediction)
	for _, pred := range p.ResolvedPredictions() {
		if pred.Subreddit == "" {
			continue
		}
		groups[pred.Subreddit] = append(groups[pred.Subreddit], pred)
	}

	out := make([]SubredditStats, 0, len(groups))
	for sub, preds := range groups {
		stats := SubredditStats{Subreddit: sub, Bets: len(preds)}
		var oddsSum float64
		for _, pred := range preds {
			oddsSum += pred.Odds
			if pred.Status == domain.StatusWon {
				stats.Wins++
			}
		}
		stats.WinRate = float64(stats.Wins) / float64(stats.Bets)
		stats.AvgOdds = oddsSum / float64(stats.Bets)
		stats.Volatility = classifyVolatility(stats.WinRate)
		stats.Trend = classifyTrend(stats.WinRate)
		stats.Recommendation = recommend(stats.WinRate, domain.SubredditMultiplier(sub))
		out = append(out, stats)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Bets != out[j].Bets {
			return out[i].Bets > out[j].Bets
		}
		return out[i].Subreddit < out[j].Subreddit
	})
	return out
}

func classifyVolatility(winRate float64) string {
	switch {
	case winRate > lowVolatilityWinRate:
		return "low"
	case winRate > mediumVolatilityWinRate:
		return "medium"
	default:
		return "high"
	}
}

func classifyTrend(winRate float64) string {
	switch {
	case winRate > risingTrendWinRate:
		return "rising"
	case winRate < fallingTrendWinRate:
		return "falling"
	default:
		return "stable"
	}
}

// recommend maps win rate and subreddit popularity to an action: a
// subreddit you win in that the market also favors is a buy.
func recommend(winRate, multiplier float64) string {
	switch {
	case winRate >= 0.6 && multiplier >= 1.1:
		return "buy"
	case winRate < 0.35:
		return "sell"
	default:
		return "hold"
	}
}

// RiskMetrics summarizes position sizing and realized performance.
type RiskMetrics struct {
	AvgActiveBetSize   float64
	Volatility         float64 // stddev of realized PnL per resolved bet
	MeanPnL            float64
	RiskAdjustedReturn float64 // mean(PnL)/volatility, 0 when volatility is 0
}

// ComputeRisk derives risk metrics from the portfolio.
func ComputeRisk(p *domain.Portfolio) RiskMetrics {
	var m RiskMetrics

	active := p.ActivePredictions()
	if len(active) > 0 {
		var sum float64
		for _, pred := range active {
			sum += pred.BetAmount
		}
		m.AvgActiveBetSize = sum / float64(len(active))
	}

	resolved := p.ResolvedPredictions()
	if len(resolved) == 0 {
		return m
	}

	pnls := make([]float64, len(resolved))
	for i, pred := range resolved {
		if pred.Status == domain.StatusWon {
			pnls[i] = pred.Profit()
		} else {
			pnls[i] = -pred.BetAmount
		}
		m.MeanPnL += pnls[i]
	}
	m.MeanPnL /= float64(len(pnls))

	var variance float64
	for _, v := range pnls {
		variance += (v - m.MeanPnL) * (v - m.MeanPnL)
	}
	variance /= float64(len(pnls))
	m.Volatility = math.Sqrt(variance)

	if m.Volatility > 0 {
		m.RiskAdjustedReturn = m.MeanPnL / m.Volatility
	}
	return m
}

// Frequency summarizes betting cadence.
type Frequency struct {
	BetsPerDay     float64
	MostActiveHour int // 0–23 UTC
	MostActiveDay  string
}

// ComputeFrequency derives cadence metrics from first/last bet
// timestamps and bucketed counts.
func ComputeFrequency(p *domain.Portfolio) Frequency {
	var f Frequency
	if len(p.Predictions) == 0 {
		return f
	}

	first := p.Predictions[0].CreatedAt
	last := p.Predictions[0].CreatedAt
	hourCounts := make(map[int]int)
	dayCounts := make(map[string]int)

	for _, pred := range p.Predictions {
		if pred.CreatedAt.Before(first) {
			first = pred.CreatedAt
		}
		if pred.CreatedAt.After(last) {
			last = pred.CreatedAt
		}
		hourCounts[pred.CreatedAt.UTC().Hour()]++
		dayCounts[pred.CreatedAt.UTC().Weekday().String()]++
	}

	days := last.Sub(first).Hours() / 24
	if days < 1 {
		days = 1
	}
	f.BetsPerDay = float64(len(p.Predictions)) / days

	best := -1
	for hour, n := range hourCounts {
		if n > best || (n == best && hour < f.MostActiveHour) {
			best = n
			f.MostActiveHour = hour
		}
	}
	best = -1
	for day, n := range dayCounts {
		if n > best || (n == best && day < f.MostActiveDay) {
			best = n
			f.MostActiveDay = day
		}
	}
	return f
}
