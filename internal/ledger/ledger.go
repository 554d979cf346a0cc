// Package ledger centraliza TODAS las mutaciones de Portfolio.
// Los invariantes (débito atómico, transición monotónica de estado,
// no-double-credit) se fuerzan aquí, en un solo sitio.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/junaidxd786/mememarket/internal/ports"
)

const (
	betExperienceRate = 0.05 // XP por apostar: 5% del stake
	winExperienceRate = 0.10 // XP por ganar: 10% de las ganancias

	dailyBonusAmount = 50.0
	dailyBonusXP     = 10.0
	dailyBonusPeriod = 24 * time.Hour
)

// Book es el dueño único de los portfolios en memoria. Todo acceso está
// serializado por su mutex; los productores concurrentes (tick de mercado,
// sweeps, acciones de usuario) nunca ven estado a medio escribir.
type Book struct {
	mu         sync.Mutex
	portfolios map[string]*domain.Portfolio
	store      ports.PortfolioStore // puede ser nil (sin persistencia)
	now        func() time.Time
}

// NewBook crea un Book. store puede ser nil para operar solo en memoria.
func NewBook(store ports.PortfolioStore) *Book {
	return &Book{
		portfolios: make(map[string]*domain.Portfolio),
		store:      store,
		now:        time.Now,
	}
}

// Get devuelve una copia del portfolio del usuario, creándolo en el
// primer uso (cargándolo del store si existe).
func (b *Book) Get(ctx context.Context, userID string) *domain.Portfolio {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.getLocked(ctx, userID).Clone()
}

func (b *Book) getLocked(ctx context.Context, userID string) *domain.Portfolio {
	if p, ok := b.portfolios[userID]; ok {
		return p
	}
	if b.store != nil {
		if p, err := b.store.Load(ctx, userID); err == nil {
			b.portfolios[userID] = p
			return p
		} else if !errors.Is(err, domain.ErrNotFound) {
			slog.Warn("portfolio load failed, starting fresh", "user", userID, "err", err)
		}
	}
	p := domain.NewPortfolio(userID, b.now())
	b.portfolios[userID] = p
	return p
}

// Update ejecuta fn sobre el portfolio bajo el lock del Book y persiste
// el resultado. Si fn devuelve error el portfolio queda intacto: fn
// recibe una copia y solo se aplica si tiene éxito.
func (b *Book) Update(ctx context.Context, userID string, fn func(p *domain.Portfolio) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.getLocked(ctx, userID)
	draft := current.Clone()
	if err := fn(draft); err != nil {
		return err
	}
	b.portfolios[userID] = draft
	b.saveLocked(ctx, draft)
	return nil
}

// PlaceBet valida y coloca una apuesta: débito atómico, Prediction nueva
// en estado active y crédito de experiencia proporcional al stake.
// La cuota se fija en el momento de colocar (odds at bet time).
// Cualquier fallo de validación deja el portfolio exactamente igual.
func (b *Book) PlaceBet(ctx context.Context, userID string, intent domain.BetIntent, item domain.ContentItem, quote domain.MarketQuote) (domain.Prediction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !domain.KnownPredictionType(intent.Type) {
		return domain.Prediction{}, domain.NewValidationError("type", fmt.Sprintf("unknown prediction type %q", intent.Type))
	}
	if intent.Amount < domain.MinBet {
		return domain.Prediction{}, domain.NewValidationError("amount", fmt.Sprintf("below minimum bet %.0f", domain.MinBet))
	}
	if intent.Amount > domain.MaxBet {
		return domain.Prediction{}, domain.NewValidationError("amount", fmt.Sprintf("above maximum bet %.0f", domain.MaxBet))
	}
	if intent.TargetValue <= 0 {
		return domain.Prediction{}, domain.NewValidationError("target", "must be positive")
	}
	if intent.ItemID != item.ID {
		return domain.Prediction{}, domain.NewValidationError("item", "intent item does not match provided item")
	}

	p := b.getLocked(ctx, userID)
	if intent.Amount > p.Balance {
		return domain.Prediction{}, fmt.Errorf("ledger.PlaceBet: amount %.2f > balance %.2f: %w",
			intent.Amount, p.Balance, domain.ErrInsufficientFunds)
	}

	now := b.now()
	pred := domain.Prediction{
		ID:            uuid.New().String(),
		UserID:        userID,
		ItemID:        item.ID,
		Subreddit:     item.Subreddit,
		Type:          intent.Type,
		TargetValue:   intent.TargetValue,
		Timeframe:     intent.Timeframe,
		BetAmount:     intent.Amount,
		Odds:          domain.CalculateOdds(item, quote, intent.Type, intent.TargetValue, intent.Timeframe, now),
		Status:        domain.StatusActive,
		CreatedAt:     now,
		BaselineValue: float64(item.Score),
	}

	p.Balance -= intent.Amount
	p.Predictions = append(p.Predictions, pred)
	p.Experience += intent.Amount * betExperienceRate
	p.Level = domain.LevelForExperience(p.Experience)
	b.unlockAchievementsLocked(p, now)
	b.saveLocked(ctx, p)

	slog.Debug("bet placed",
		"user", userID,
		"item", item.ID,
		"type", pred.Type,
		"amount", pred.BetAmount,
		"odds", pred.Odds,
	)
	return pred, nil
}

// ResolveReport resume un barrido de resolución.
type ResolveReport struct {
	Won      int
	Lost     int
	Expired  int
	Pending  int
	Credited float64
}

// ResolveAll evalúa cada apuesta activa cuyo item esté presente.
// Idempotente: las apuestas ya terminales no se tocan nunca. Las apuestas
// cuyo item desapareció del provider se fuerzan a lost pasado el horizonte
// de expiración.
func (b *Book) ResolveAll(ctx context.Context, userID string, items map[string]domain.ContentItem, quotes map[string]domain.MarketQuote) (ResolveReport, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.getLocked(ctx, userID)
	now := b.now()
	var report ResolveReport
	changed := false

	for i := range p.Predictions {
		pred := &p.Predictions[i]
		if pred.Status.Terminal() {
			continue // guard explícito: nunca re-resolver
		}

		item, haveItem := items[pred.ItemID]
		if !haveItem {
			if domain.Expired(*pred, now) {
				b.markResolvedLocked(p, pred, domain.VerdictLost, now)
				report.Expired++
				report.Lost++
				changed = true
			} else {
				report.Pending++
			}
			continue
		}

		verdict := domain.Resolve(*pred, item, quotes[pred.ItemID], now)
		switch verdict {
		case domain.VerdictPending:
			report.Pending++
		case domain.VerdictWon:
			b.markResolvedLocked(p, pred, domain.VerdictWon, now)
			report.Won++
			report.Credited += pred.Payout()
			changed = true
		case domain.VerdictLost:
			b.markResolvedLocked(p, pred, domain.VerdictLost, now)
			report.Lost++
			changed = true
		}
	}

	if changed {
		p.Level = domain.LevelForExperience(p.Experience)
		b.unlockAchievementsLocked(p, now)
		b.saveLocked(ctx, p)
	}
	return report, nil
}

// markResolvedLocked aplica la transición terminal y los créditos.
// Solo se llama sobre apuestas en estado active.
func (b *Book) markResolvedLocked(p *domain.Portfolio, pred *domain.Prediction, v domain.Verdict, now time.Time) {
	resolvedAt := now
	pred.ResolvedAt = &resolvedAt

	if v == domain.VerdictWon {
		pred.Status = domain.StatusWon
		winnings := pred.Payout()
		p.Balance += winnings
		p.Experience += winnings * winExperienceRate
		return
	}
	pred.Status = domain.StatusLost
}

// PortfolioValue devuelve el valor estimado del portfolio:
//
//	balance + Σ(active: 0.1×bet×odds) + Σ(won: bet×(odds−1))
func (b *Book) PortfolioValue(ctx context.Context, userID string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.getLocked(ctx, userID)
	value := p.Balance
	for _, pred := range p.Predictions {
		switch pred.Status {
		case domain.StatusActive:
			value += 0.1 * pred.BetAmount * pred.Odds
		case domain.StatusWon:
			value += pred.Profit()
		}
	}
	return value
}

// EarningsSummary es el desglose de ingresos/gastos de un portfolio.
// Las categorías no provenientes de apuestas salen del ledger explícito
// de IncomeEntry, no de heurísticas.
type EarningsSummary struct {
	TotalWinnings      float64
	TotalSpent         float64
	DailyBonuses       float64
	AchievementRewards float64
	StakingRewards     float64
	TournamentPrizes   float64
	Net                float64
}

// Summarize calcula el desglose de ingresos del usuario.
func (b *Book) Summarize(ctx context.Context, userID string) EarningsSummary {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.getLocked(ctx, userID)
	var s EarningsSummary
	for _, pred := range p.Predictions {
		s.TotalSpent += pred.BetAmount
		if pred.Status == domain.StatusWon {
			s.TotalWinnings += pred.Payout()
		}
	}
	for _, in := range p.Income {
		switch in.Kind {
		case domain.IncomeDailyBonus:
			s.DailyBonuses += in.Amount
		case domain.IncomeAchievement:
			s.AchievementRewards += in.Amount
		case domain.IncomeStaking:
			s.StakingRewards += in.Amount
		case domain.IncomeTournament:
			s.TournamentPrizes += in.Amount
		}
	}
	s.Net = s.TotalWinnings - s.TotalSpent +
		s.DailyBonuses + s.AchievementRewards + s.StakingRewards + s.TournamentPrizes
	return s
}

// ClaimDailyBonus acredita el bonus diario si pasaron 24h desde el último.
func (b *Book) ClaimDailyBonus(ctx context.Context, userID string) (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.getLocked(ctx, userID)
	now := b.now()
	if !p.LastDailyBonus.IsZero() && now.Sub(p.LastDailyBonus) < dailyBonusPeriod {
		return 0, fmt.Errorf("ledger.ClaimDailyBonus: next claim at %s: %w",
			p.LastDailyBonus.Add(dailyBonusPeriod).Format(time.RFC3339), domain.ErrInvalidState)
	}

	p.Balance += dailyBonusAmount
	p.Experience += dailyBonusXP
	p.Level = domain.LevelForExperience(p.Experience)
	p.LastDailyBonus = now
	p.Income = append(p.Income, domain.IncomeEntry{Kind: domain.IncomeDailyBonus, Amount: dailyBonusAmount, At: now})
	b.saveLocked(ctx, p)
	return dailyBonusAmount, nil
}

// Reset reinicia el portfolio del usuario al estado inicial.
func (b *Book) Reset(ctx context.Context, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := domain.NewPortfolio(userID, b.now())
	b.portfolios[userID] = p
	b.saveLocked(ctx, p)
}

// saveLocked persiste best-effort: un fallo de persistencia no debe
// deshacer una operación de ledger ya aplicada.
func (b *Book) saveLocked(ctx context.Context, p *domain.Portfolio) {
	if b.store == nil {
		return
	}
	if err := b.store.Save(ctx, p); err != nil {
		slog.Warn("portfolio save failed", "user", p.UserID, "err", err)
	}
}
