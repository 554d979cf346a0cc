package domain

import "time"

// PredictionType es uno de los cinco tipos de apuesta soportados.
type PredictionType string

const (
	PredictGrowthRate      PredictionType = "growth_rate"
	PredictMilestoneReach  PredictionType = "milestone_reach"
	PredictRankingPosition PredictionType = "ranking_position"
	PredictEngagementRatio PredictionType = "engagement_ratio"
	PredictViralityIndex   PredictionType = "virality_index"
)

// KnownPredictionType devuelve true si t es uno de los cinco tipos válidos.
func KnownPredictionType(t PredictionType) bool {
	switch t {
	case PredictGrowthRate, PredictMilestoneReach, PredictRankingPosition,
		PredictEngagementRatio, PredictViralityIndex:
		return true
	}
	return false
}

// Timeframe es una de las cuatro ventanas fijas de resolución.
type Timeframe string

const (
	TimeframeShort    Timeframe = "SHORT"    // 1h
	TimeframeMedium   Timeframe = "MEDIUM"   // 6h
	TimeframeLong     Timeframe = "LONG"     // 24h
	TimeframeExtended Timeframe = "EXTENDED" // 72h
)

// Hours devuelve la duración de la ventana en horas.
// Timeframes desconocidos caen en LONG (24h).
func (tf Timeframe) Hours() float64 {
	switch tf {
	case TimeframeShort:
		return 1
	case TimeframeMedium:
		return 6
	case TimeframeLong:
		return 24
	case TimeframeExtended:
		return 72
	}
	return 24
}

// Duration devuelve la ventana como time.Duration.
func (tf Timeframe) Duration() time.Duration {
	return time.Duration(tf.Hours() * float64(time.Hour))
}

// PredictionStatus es el estado del ciclo de vida de una apuesta.
// Transición monotónica: active → won|lost, nunca se revierte.
type PredictionStatus string

const (
	StatusActive PredictionStatus = "active"
	StatusWon    PredictionStatus = "won"
	StatusLost   PredictionStatus = "lost"
)

// Terminal devuelve true si el estado ya no puede cambiar.
func (s PredictionStatus) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Prediction es una apuesta individual sobre un ContentItem.
type Prediction struct {
	ID            string
	UserID        string
	ItemID        string
	Subreddit     string // copiado del item al apostar, para analytics
	Type          PredictionType
	TargetValue   float64
	Timeframe     Timeframe
	BetAmount     float64
	Odds          float64
	Status        PredictionStatus
	CreatedAt     time.Time
	ResolvedAt    *time.Time
	BaselineValue float64 // score del item en el momento de apostar
}

// ResolvableAt devuelve el instante a partir del cual la apuesta puede resolverse.
func (p Prediction) ResolvableAt() time.Time {
	return p.CreatedAt.Add(p.Timeframe.Duration())
}

// ExpiresAt devuelve el horizonte absoluto tras el cual la apuesta se
// fuerza a lost si nunca se pudo evaluar (item desaparecido del provider).
func (p Prediction) ExpiresAt(grace time.Duration) time.Time {
	return p.ResolvableAt().Add(grace)
}

// Payout devuelve el crédito total si la apuesta gana.
func (p Prediction) Payout() float64 {
	return p.BetAmount * p.Odds
}

// Profit devuelve la ganancia neta si la apuesta gana.
func (p Prediction) Profit() float64 {
	return p.BetAmount * (p.Odds - 1)
}

// BetIntent es la solicitud de apuesta que valida el ledger.
type BetIntent struct {
	ItemID      string
	Type        PredictionType
	TargetValue float64
	Timeframe   Timeframe
	Amount      float64
}
