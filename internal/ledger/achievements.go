package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// achievementDef es una condición de desbloqueo del catálogo estático.
type achievementDef struct {
	ID     string
	Name   string
	Rarity domain.AchievementRarity
	Reward float64
	Check  func(p *domain.Portfolio) bool
}

// catalog: uno por ID por portfolio, nunca se revoca.
var catalog = []achievementDef{
	{
		ID: "first_bet", Name: "Skin in the Game", Rarity: domain.RarityCommon, Reward: 25,
		Check: func(p *domain.Portfolio) bool { return len(p.Predictions) >= 1 },
	},
	{
		ID: "first_win", Name: "Beginner's Luck", Rarity: domain.RarityCommon, Reward: 50,
		Check: func(p *domain.Portfolio) bool { return countWon(p) >= 1 },
	},
	{
		ID: "ten_wins", Name: "Seasoned Degen", Rarity: domain.RarityRare, Reward: 150,
		Check: func(p *domain.Portfolio) bool { return countWon(p) >= 10 },
	},
	{
		ID: "high_roller", Name: "High Roller", Rarity: domain.RarityRare, Reward: 100,
		Check: func(p *domain.Portfolio) bool {
			for _, pred := range p.Predictions {
				if pred.BetAmount >= 1_000 {
					return true
				}
			}
			return false
		},
	},
	{
		ID: "diversified", Name: "Diversified Degenerate", Rarity: domain.RarityRare, Reward: 75,
		Check: func(p *domain.Portfolio) bool {
			subs := map[string]bool{}
			for _, pred := range p.Predictions {
				if pred.Subreddit != "" {
					subs[pred.Subreddit] = true
				}
			}
			return len(subs) >= 5
		},
	},
	{
		ID: "hot_streak", Name: "Hot Streak", Rarity: domain.RarityEpic, Reward: 250,
		Check: func(p *domain.Portfolio) bool { return currentWinStreak(p) >= 5 },
	},
	{
		ID: "meme_lord", Name: "Meme Lord", Rarity: domain.RarityLegendary, Reward: 500,
		Check: func(p *domain.Portfolio) bool { return p.Balance >= 10_000 },
	},
}

// unlockAchievementsLocked evalúa el catálogo y acredita los desbloqueos
// nuevos (reward + entrada de income + XP plano por rareza).
func (b *Book) unlockAchievementsLocked(p *domain.Portfolio, now time.Time) {
	for _, def := range catalog {
		if p.HasAchievement(def.ID) || !def.Check(p) {
			continue
		}
		p.Achievements = append(p.Achievements, domain.Achievement{
			ID:         def.ID,
			Name:       def.Name,
			Rarity:     def.Rarity,
			Reward:     def.Reward,
			UnlockedAt: now,
		})
		p.Balance += def.Reward
		p.Experience += def.Reward // XP plano: igual al reward
		p.Income = append(p.Income, domain.IncomeEntry{
			Kind:   domain.IncomeAchievement,
			Amount: def.Reward,
			At:     now,
		})
		slog.Info("achievement unlocked", "user", p.UserID, "achievement", def.ID, "rarity", def.Rarity)
	}
	p.Level = domain.LevelForExperience(p.Experience)
}

func countWon(p *domain.Portfolio) int {
	n := 0
	for _, pred := range p.Predictions {
		if pred.Status == domain.StatusWon {
			n++
		}
	}
	return n
}

// currentWinStreak cuenta victorias consecutivas desde la apuesta resuelta
// más reciente hacia atrás.
func currentWinStreak(p *domain.Portfolio) int {
	resolved := p.ResolvedPredictions()
	streak := 0
	for i := len(resolved) - 1; i >= 0; i-- {
		if resolved[i].Status != domain.StatusWon {
			break
		}
		streak++
	}
	return streak
}

// CurrentWinStreak expone la racha actual para el tournament scorer.
func (b *Book) CurrentWinStreak(ctx context.Context, userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return currentWinStreak(b.getLocked(ctx, userID))
}
