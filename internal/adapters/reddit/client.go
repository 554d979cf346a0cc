// Package reddit implementa ports.ContentProvider contra la API JSON
// pública de Reddit (sin OAuth: endpoints .json de solo lectura).
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://www.reddit.com"
	defaultUserAgent = "mememarket/1.0 (virtual prediction market)"

	// Reddit corta sin OAuth por encima de ~60 req/min. Nos quedamos
	// muy por debajo.
	requestsPerSec = 0.5
	requestBurst   = 3

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond

	defaultLimit = 25
	maxLimit     = 100
)

// Client es el HTTP client de Reddit con rate limiting y retries.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

// NewClient crea un Client. Si baseURL está vacío usa la API pública.
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(requestsPerSec, requestBurst),
	}
}

// FetchTrending devuelve los posts hot del subreddit (front page si está
// vacío). Un error del API se propaga; el caller lo trata como "sin
// actualización este ciclo".
func (c *Client) FetchTrending(ctx context.Context, subreddit string, limit int) ([]domain.ContentItem, error) {
	limit = clampLimit(limit)

	path := "/hot.json"
	if subreddit != "" {
		path = "/r/" + url.PathEscape(subreddit) + "/hot.json"
	}
	u := fmt.Sprintf("%s%s?limit=%d&raw_json=1", c.baseURL, path, limit)

	var listing listingResponse
	if err := c.get(ctx, u, &listing); err != nil {
		return nil, fmt.Errorf("reddit.FetchTrending: %w", err)
	}
	return mapListing(listing), nil
}

// Search devuelve los posts que matchean la query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.ContentItem, error) {
	limit = clampLimit(limit)
	u := fmt.Sprintf("%s/search.json?q=%s&limit=%d&raw_json=1",
		c.baseURL, url.QueryEscape(query), limit)

	var listing listingResponse
	if err := c.get(ctx, u, &listing); err != nil {
		return nil, fmt.Errorf("reddit.Search: %w", err)
	}
	return mapListing(listing), nil
}

// FetchByID devuelve el snapshot actual de un post por su ID (t3_xxx).
func (c *Client) FetchByID(ctx context.Context, id string) (domain.ContentItem, error) {
	u := fmt.Sprintf("%s/by_id/t3_%s.json?raw_json=1", c.baseURL, url.PathEscape(id))

	var listing listingResponse
	if err := c.get(ctx, u, &listing); err != nil {
		return domain.ContentItem{}, fmt.Errorf("reddit.FetchByID: %w", err)
	}

	items := mapListing(listing)
	if len(items) == 0 {
		return domain.ContentItem{}, fmt.Errorf("reddit.FetchByID: post %q: %w", id, domain.ErrNotFound)
	}
	return items[0], nil
}

// get hace un GET JSON con rate limiting y retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by reddit", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return domain.ErrNotFound
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
