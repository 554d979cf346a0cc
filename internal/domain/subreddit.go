package domain

import "strings"

// subredditMultipliers es la tabla de popularidad por subreddit.
// Subreddits desconocidos usan 1.0.
var subredditMultipliers = map[string]float64{
	"memes":           1.3,
	"dankmemes":       1.25,
	"funny":           1.2,
	"me_irl":          1.15,
	"wholesomememes":  1.1,
	"programmerhumor": 1.1,
	"gaming":          1.05,
	"aww":             1.05,
}

// SubredditMultiplier devuelve el multiplicador de popularidad del subreddit.
func SubredditMultiplier(name string) float64 {
	if m, ok := subredditMultipliers[strings.ToLower(name)]; ok {
		return m
	}
	return 1.0
}

// containsFold hace un contains case-insensitive.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
