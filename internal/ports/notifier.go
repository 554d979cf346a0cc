package ports

import (
	"context"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// Notifier presenta el estado del mercado al usuario.
// La implementación de consola imprime tablas formateadas.
type Notifier interface {
	// NotifyQuotes muestra las quotes ordenadas por ranking.
	NotifyQuotes(ctx context.Context, quotes []domain.MarketQuote, items map[string]domain.ContentItem) error

	// NotifyEvent muestra un evento de mercado (shock o rotación).
	NotifyEvent(ctx context.Context, ev domain.MarketEvent) error
}
