package domain

import "time"

// Trend es la dirección del último tick de una quote.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// MarketQuote es el estado sintético de precio/volumen de un ContentItem.
// Solo el Market Simulator la muta; el resto del sistema la lee por copia.
type MarketQuote struct {
	ItemID        string
	CurrentPrice  float64
	PreviousPrice float64
	Volume        int64
	ChangePercent float64
	Trend         Trend
	LastUpdated   time.Time
	Ranking       int // 0 = sin ranking asignado
}

// TrendOf devuelve la dirección comparando current contra previous
// (comparación estricta: igualdad exacta ⇒ stable).
func TrendOf(current, previous float64) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendStable
	}
}

// ShockKind es el tipo de evento de mercado instantáneo.
type ShockKind string

const (
	ShockCrash ShockKind = "crash"
	ShockBoom  ShockKind = "boom"
)

// MarketEvent registra un shock o rotación aplicado sobre todas las quotes.
// Se devuelve al caller para display/log; el core no lo persiste.
type MarketEvent struct {
	ID        string
	Kind      string // "crash" | "boom" | "sector_rotation"
	Impact    float64
	Duration  time.Duration
	CreatedAt time.Time
	Detail    string
}

// MarketSector es la ventana temática activa que multiplica precios.
// Hay exactamente uno activo a la vez; lo rota el Market Simulator.
type MarketSector struct {
	ID          string
	Name        string
	Multiplier  float64
	ActiveUntil time.Time
	Keywords    []string
}

// Matches devuelve true si el item cae dentro de la temática del sector.
func (s MarketSector) Matches(item ContentItem) bool {
	for _, kw := range s.Keywords {
		if containsFold(item.Subreddit, kw) || containsFold(item.Title, kw) {
			return true
		}
	}
	return false
}
