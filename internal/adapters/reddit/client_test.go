package reddit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/junaidxd786/mememarket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingJSON(posts ...map[string]any) string {
	children := make([]map[string]any, len(posts))
	for i, p := range posts {
		children[i] = map[string]any{"data": p}
	}
	b, _ := json.Marshal(map[string]any{
		"data": map[string]any{"children": children},
	})
	return string(b)
}

func TestFetchTrending_MapsListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/memes/hot.json", r.URL.Path)
		w.Write([]byte(listingJSON(
			map[string]any{
				"id": "abc123", "title": "a meme", "score": 1000,
				"num_comments": 50, "created_utc": 1750000000.0,
				"subreddit": "memes", "thumbnail": "https://i.redd.it/x.jpg",
			},
			map[string]any{"id": "mod1", "title": "rules", "stickied": true},
		)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-agent")
	items, err := c.FetchTrending(context.Background(), "memes", 25)
	require.NoError(t, err)
	require.Len(t, items, 1, "stickied posts filtered out")

	item := items[0]
	assert.Equal(t, "abc123", item.ID)
	assert.Equal(t, 1000, item.Score)
	assert.Equal(t, 50, item.CommentCount)
	assert.Equal(t, "memes", item.Subreddit)
	assert.Equal(t, time.Unix(1750000000, 0).UTC(), item.CreatedAt)
	assert.True(t, item.HasImage())
}

func TestFetchByID_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingJSON()))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-agent")
	_, err := c.FetchByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch_EmptyListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		w.Write([]byte(listingJSON()))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-agent")
	items, err := c.Search(context.Background(), "doge", 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGet_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-agent")
	_, err := c.FetchTrending(context.Background(), "", 5)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
