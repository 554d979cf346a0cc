package domain

import "time"

// Límites económicos del mercado. En MemeCoins.
const (
	MinBet          = 10.0
	MaxBet          = 10_000.0
	StartingBalance = 1_000.0
)

// Portfolio es el ledger económico autoritativo de un usuario.
// Nunca se borra, solo se resetea. Todas las mutaciones pasan por
// internal/ledger (y staking/tournament bajo el mismo lock).
type Portfolio struct {
	UserID               string
	Balance              float64
	Predictions          []Prediction
	Achievements         []Achievement
	Experience           float64
	Level                int
	StakedBalance        float64
	StakingRewardsAccrued float64
	LastStakingClaim     time.Time
	TournamentPoints     int
	CurrentTournamentID  string
	Income               []IncomeEntry
	LastDailyBonus       time.Time
	CreatedAt            time.Time
}

// NewPortfolio crea un portfolio con el balance inicial.
func NewPortfolio(userID string, now time.Time) *Portfolio {
	return &Portfolio{
		UserID:           userID,
		Balance:          StartingBalance,
		Level:            1,
		LastStakingClaim: now,
		CreatedAt:        now,
	}
}

// ActivePredictions devuelve las apuestas aún sin resolver.
func (p *Portfolio) ActivePredictions() []Prediction {
	var out []Prediction
	for _, pr := range p.Predictions {
		if pr.Status == StatusActive {
			out = append(out, pr)
		}
	}
	return out
}

// ResolvedPredictions devuelve las apuestas terminales en orden cronológico
// de resolución.
func (p *Portfolio) ResolvedPredictions() []Prediction {
	var out []Prediction
	for _, pr := range p.Predictions {
		if pr.Status.Terminal() {
			out = append(out, pr)
		}
	}
	return out
}

// HasAchievement devuelve true si el achievement ya fue desbloqueado.
func (p *Portfolio) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Clone devuelve una copia profunda del portfolio.
// Los lectores concurrentes (analytics, notifier) trabajan sobre copias.
func (p *Portfolio) Clone() *Portfolio {
	cp := *p
	cp.Predictions = append([]Prediction(nil), p.Predictions...)
	cp.Achievements = append([]Achievement(nil), p.Achievements...)
	cp.Income = append([]IncomeEntry(nil), p.Income...)
	return &cp
}

// AchievementRarity clasifica el achievement para display.
type AchievementRarity string

const (
	RarityCommon    AchievementRarity = "common"
	RarityRare      AchievementRarity = "rare"
	RarityEpic      AchievementRarity = "epic"
	RarityLegendary AchievementRarity = "legendary"
)

// Achievement es un hito desbloqueado: uno por ID por portfolio, nunca se revoca.
type Achievement struct {
	ID         string
	Name       string
	Rarity     AchievementRarity
	Reward     float64 // MemeCoins acreditados al desbloquear
	UnlockedAt time.Time
}

// IncomeKind clasifica un ingreso no proveniente de apuestas.
type IncomeKind string

const (
	IncomeDailyBonus  IncomeKind = "daily_bonus"
	IncomeAchievement IncomeKind = "achievement"
	IncomeStaking     IncomeKind = "staking"
	IncomeTournament  IncomeKind = "tournament"
)

// IncomeEntry es una entrada explícita del ledger de ingresos.
// Se registra en el momento del crédito en vez de reconstruirse después.
type IncomeEntry struct {
	Kind   IncomeKind
	Amount float64
	At     time.Time
}

// StakingTier es un bracket estático de APR por cantidad stakeada.
type StakingTier struct {
	Name      string
	MinAmount float64
	MaxAmount float64 // 0 = sin tope
	APR       float64 // porcentaje anual, p.ej. 5 = 5%
}

// Contains devuelve true si amount cae dentro del bracket.
func (t StakingTier) Contains(amount float64) bool {
	if amount < t.MinAmount {
		return false
	}
	return t.MaxAmount == 0 || amount <= t.MaxAmount
}

// levelThresholds mapea experiencia acumulada a nivel (monótona creciente).
var levelThresholds = []float64{0, 100, 300, 700, 1_500, 3_000, 6_000, 12_000, 25_000, 50_000}

// LevelForExperience devuelve el nivel correspondiente a la experiencia dada.
func LevelForExperience(xp float64) int {
	level := 1
	for i, threshold := range levelThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}
