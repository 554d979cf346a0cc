package ports

import (
	"context"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// ContentProvider obtiene los posts externos sobre los que se apuesta.
// El core tolera fallos del provider: un fetch vacío o fallido significa
// "sin actualización este ciclo", nunca se inventan datos.
type ContentProvider interface {
	// FetchTrending devuelve los posts calientes del subreddit dado
	// (o del front page si subreddit está vacío).
	FetchTrending(ctx context.Context, subreddit string, limit int) ([]domain.ContentItem, error)

	// Search devuelve los posts que matchean la query.
	Search(ctx context.Context, query string, limit int) ([]domain.ContentItem, error)

	// FetchByID devuelve el snapshot actual de un post.
	// Devuelve domain.ErrNotFound si el post ya no existe.
	FetchByID(ctx context.Context, id string) (domain.ContentItem, error)
}
