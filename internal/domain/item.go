package domain

import "time"

// ContentItem es el snapshot inmutable de un post externo (Reddit).
// Se re-fetchea para obtener score/commentCount actualizados.
type ContentItem struct {
	ID           string
	Title        string
	Score        int
	CommentCount int
	CreatedAt    time.Time
	Subreddit    string
	Thumbnail    string // URL de imagen, vacío si no hay
	Selftext     string // cuerpo de texto, vacío si es link-post
}

// AgeHours devuelve la edad del post en horas respecto a now.
// Nunca devuelve menos de 0.
func (c ContentItem) AgeHours(now time.Time) float64 {
	h := now.Sub(c.CreatedAt).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// HasImage devuelve true si el post tiene thumbnail real
// (Reddit usa "self", "default" y "nsfw" como placeholders).
func (c ContentItem) HasImage() bool {
	switch c.Thumbnail {
	case "", "self", "default", "nsfw", "spoiler":
		return false
	}
	return true
}

// EngagementRatio devuelve comentarios por punto de score.
func (c ContentItem) EngagementRatio() float64 {
	score := c.Score
	if score < 1 {
		score = 1
	}
	return float64(c.CommentCount) / float64(score)
}

// TruncateTitle devuelve el título truncado a maxLen caracteres.
// Si el título está vacío usa los primeros caracteres del ID como fallback.
func TruncateTitle(title, id string, maxLen int) string {
	t := title
	if t == "" {
		if len(id) > 12 {
			t = id[:12] + "..."
		} else {
			t = id
		}
	}
	if len(t) > maxLen {
		t = t[:maxLen-3] + "..."
	}
	return t
}
