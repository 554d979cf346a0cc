package ports

import (
	"context"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// PortfolioStore persiste el registro serializado de cada portfolio en
// un key-value store opaco. El core solo define la forma del registro.
type PortfolioStore interface {
	// Save escribe (upsert) el portfolio completo.
	Save(ctx context.Context, p *domain.Portfolio) error

	// Load devuelve el portfolio del usuario.
	// Devuelve domain.ErrNotFound si nunca se guardó.
	Load(ctx context.Context, userID string) (*domain.Portfolio, error)

	// Close cierra la conexión limpiamente.
	Close() error
}
