package reddit

import (
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
)

// listingResponse es el envelope estándar de la API de Reddit.
type listingResponse struct {
	Data struct {
		Children []struct {
			Data postData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// postData son los campos de un post que nos interesan.
type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Subreddit   string  `json:"subreddit"`
	Thumbnail   string  `json:"thumbnail"`
	Selftext    string  `json:"selftext"`
	Stickied    bool    `json:"stickied"`
}

// mapListing convierte los DTOs del listing a domain.ContentItem.
// Los posts stickied (anuncios de mods) se descartan: no son contenido
// orgánico sobre el que tenga sentido apostar.
func mapListing(listing listingResponse) []domain.ContentItem {
	items := make([]domain.ContentItem, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		d := child.Data
		if d.ID == "" || d.Stickied {
			continue
		}
		items = append(items, domain.ContentItem{
			ID:           d.ID,
			Title:        d.Title,
			Score:        d.Score,
			CommentCount: d.NumComments,
			CreatedAt:    time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Subreddit:    d.Subreddit,
			Thumbnail:    d.Thumbnail,
			Selftext:     d.Selftext,
		})
	}
	return items
}
