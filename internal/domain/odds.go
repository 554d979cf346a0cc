package domain

import (
	"math"
	"time"
)

// Límites de las cuotas. Toda cuota válida cae en [MinOdds, MaxOdds].
const (
	MinOdds = 1.1
	MaxOdds = 50.0

	// DefaultOdds es el fallback neutral para tipos de predicción
	// desconocidos: un hueco de configuración no debe parar la simulación.
	DefaultOdds = 2.0
)

// baseOdds por tipo: refleja la dificultad intrínseca de cada predicción.
// ranking_position exige match exacto ⇒ la cuota base más alta.
var baseOdds = map[PredictionType]float64{
	PredictGrowthRate:      3.0,
	PredictMilestoneReach:  2.2,
	PredictRankingPosition: 5.0,
	PredictEngagementRatio: 2.6,
	PredictViralityIndex:   3.5,
}

// timeframeMultipliers: ventanas cortas son más difíciles de acertar.
var timeframeMultipliers = map[Timeframe]float64{
	TimeframeShort:    1.5,
	TimeframeMedium:   1.2,
	TimeframeLong:     1.0,
	TimeframeExtended: 0.8,
}

// MarketConditions son los buckets tabulados que modulan la volatilidad
// percibida de un item en el momento de apostar.
type MarketConditions struct {
	AgeBucket     string // "0-1h" | "1-3h" | "3-6h" | "6-12h" | "12-24h" | "24h+"
	RankBucket    string // "1-5" | "6-20" | "21-50" | "51+"
	DaypartBucket string // "peak" | "normal" | "quiet"
}

// ConditionsFor deriva los buckets de condiciones para (item, quote) en now.
// Quote sin ranking asignado cae en el bucket "51+".
func ConditionsFor(item ContentItem, quote MarketQuote, now time.Time) MarketConditions {
	return MarketConditions{
		AgeBucket:     ageBucket(item.AgeHours(now)),
		RankBucket:    rankBucket(quote.Ranking),
		DaypartBucket: daypartBucket(now.UTC().Hour()),
	}
}

func ageBucket(hours float64) string {
	switch {
	case hours < 1:
		return "0-1h"
	case hours < 3:
		return "1-3h"
	case hours < 6:
		return "3-6h"
	case hours < 12:
		return "6-12h"
	case hours < 24:
		return "12-24h"
	default:
		return "24h+"
	}
}

func rankBucket(rank int) string {
	switch {
	case rank >= 1 && rank <= 5:
		return "1-5"
	case rank >= 6 && rank <= 20:
		return "6-20"
	case rank >= 21 && rank <= 50:
		return "21-50"
	default:
		return "51+"
	}
}

func daypartBucket(hourUTC int) string {
	switch {
	case hourUTC >= 14 && hourUTC < 22:
		return "peak"
	case hourUTC >= 2 && hourUTC < 8:
		return "quiet"
	default:
		return "normal"
	}
}

// Factores tabulados por bucket. Posts jóvenes y mal rankeados son más
// volátiles ⇒ cuota más alta; horario peak comprime las cuotas.
var (
	ageFactors = map[string]float64{
		"0-1h": 1.4, "1-3h": 1.25, "3-6h": 1.1,
		"6-12h": 1.0, "12-24h": 0.95, "24h+": 0.85,
	}
	rankFactors = map[string]float64{
		"1-5": 0.9, "6-20": 1.0, "21-50": 1.1, "51+": 1.25,
	}
	daypartFactors = map[string]float64{
		"peak": 0.95, "normal": 1.0, "quiet": 1.15,
	}
)

// VolatilityFactor devuelve el producto de los tres factores de bucket.
func (mc MarketConditions) VolatilityFactor() float64 {
	return ageFactors[mc.AgeBucket] * rankFactors[mc.RankBucket] * daypartFactors[mc.DaypartBucket]
}

// CalculateOdds calcula la cuota para una apuesta en el momento de colocarla.
//
// Fórmula:
//
//	odds = baseOdds(type) × volatilityFactor(conditions) × timeframeMult(tf)
//	       × subredditMult(sub) × difficultyMult(type, target, conditions)
//
// clamped a [MinOdds, MaxOdds]. Tipo desconocido ⇒ DefaultOdds.
// Función pura: no muta item ni quote.
func CalculateOdds(item ContentItem, quote MarketQuote, t PredictionType, target float64, tf Timeframe, now time.Time) float64 {
	base, ok := baseOdds[t]
	if !ok {
		return DefaultOdds
	}

	conditions := ConditionsFor(item, quote, now)

	odds := base *
		conditions.VolatilityFactor() *
		timeframeMultiplier(tf) *
		SubredditMultiplier(item.Subreddit) *
		difficultyMultiplier(t, target, item, quote, now)

	return clampOdds(odds)
}

func timeframeMultiplier(tf Timeframe) float64 {
	if m, ok := timeframeMultipliers[tf]; ok {
		return m
	}
	return 1.0
}

// difficultyMultiplier compara el target contra el valor actual de la
// métrica: targets ambiciosos pagan más.
func difficultyMultiplier(t PredictionType, target float64, item ContentItem, quote MarketQuote, now time.Time) float64 {
	var ratio float64

	switch t {
	case PredictMilestoneReach:
		ratio = target / math.Max(1, float64(item.Score))
	case PredictGrowthRate:
		age := math.Max(0.5, item.AgeHours(now))
		currentRate := float64(item.Score) / age
		ratio = target / math.Max(1, currentRate)
	case PredictRankingPosition:
		rank := quote.Ranking
		if rank < 1 {
			rank = 51
		}
		ratio = 1 + math.Abs(target-float64(rank))/25
	case PredictEngagementRatio:
		ratio = target / math.Max(0.01, item.EngagementRatio())
	case PredictViralityIndex:
		ratio = target / math.Max(0.1, ViralityIndex(item, quote, now))
	default:
		return 1.0
	}

	switch {
	case ratio <= 0.5:
		return 0.8
	case ratio <= 1:
		return 1.0
	case ratio <= 2:
		return 1.3
	case ratio <= 5:
		return 1.8
	case ratio <= 10:
		return 2.5
	default:
		return 3.5
	}
}

// ViralityIndex calcula el índice de viralidad actual de un item:
//
//	(score + 2×comments) / (ageHours × max(1, ranking/10))
func ViralityIndex(item ContentItem, quote MarketQuote, now time.Time) float64 {
	age := math.Max(0.1, item.AgeHours(now))
	rankPenalty := math.Max(1, float64(quote.Ranking)/10)
	return (float64(item.Score) + 2*float64(item.CommentCount)) / (age * rankPenalty)
}

func clampOdds(odds float64) float64 {
	if odds < MinOdds {
		return MinOdds
	}
	if odds > MaxOdds {
		return MaxOdds
	}
	return math.Round(odds*100) / 100
}
