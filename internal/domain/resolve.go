package domain

import (
	"math"
	"time"
)

// Verdict es el resultado de evaluar una apuesta contra métricas reales.
type Verdict string

const (
	VerdictWon     Verdict = "won"
	VerdictLost    Verdict = "lost"
	VerdictPending Verdict = "pending"
)

// Bandas de tolerancia por tipo. ranking_position es discreto y exige
// match exacto; el resto son estimaciones continuas con error acotado.
const (
	GrowthTolerance     = 0.10
	EngagementTolerance = 0.15
	ViralityTolerance   = 0.20
)

// ExpiryGrace es cuánto puede quedarse una apuesta sin evaluar después
// de su ventana antes de forzarse a lost (item desaparecido del provider).
const ExpiryGrace = 24 * time.Hour

// Resolve evalúa una apuesta contra el estado actual del item y su quote.
// Devuelve pending mientras la ventana no haya cerrado. Función pura.
//
// Tipos desconocidos pasado el timeframe se resuelven lost: nunca se
// pudieron evaluar y no deben quedar activos para siempre.
func Resolve(p Prediction, item ContentItem, quote MarketQuote, now time.Time) Verdict {
	if now.Before(p.ResolvableAt()) {
		return VerdictPending
	}

	switch p.Type {
	case PredictGrowthRate:
		actual := (float64(item.Score) - p.BaselineValue) / p.Timeframe.Hours()
		return verdictWithin(actual, p.TargetValue, GrowthTolerance)

	case PredictMilestoneReach:
		if float64(item.Score) >= p.TargetValue {
			return VerdictWon
		}
		return VerdictLost

	case PredictRankingPosition:
		if quote.Ranking == int(p.TargetValue) {
			return VerdictWon
		}
		return VerdictLost

	case PredictEngagementRatio:
		return verdictWithin(item.EngagementRatio(), p.TargetValue, EngagementTolerance)

	case PredictViralityIndex:
		return verdictWithin(ViralityIndex(item, quote, now), p.TargetValue, ViralityTolerance)
	}

	return VerdictLost
}

// Expired devuelve true si la apuesta pasó su horizonte absoluto sin
// poderse evaluar: el ledger la fuerza a lost.
func Expired(p Prediction, now time.Time) bool {
	return now.After(p.ExpiresAt(ExpiryGrace))
}

// verdictWithin gana si |actual − target| ≤ tolerance×target.
func verdictWithin(actual, target, tolerance float64) Verdict {
	if math.Abs(actual-target) <= tolerance*math.Abs(target) {
		return VerdictWon
	}
	return VerdictLost
}
