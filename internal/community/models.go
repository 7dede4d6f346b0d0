package community

import (
	"backend-communitymap/internal/gamify"
	"backend-communitymap/internal/marker"
)

// LeaderboardEntry is one ranked row of the points leaderboard.
type LeaderboardEntry struct {
	Rank        int          `json:"rank"`
	UserID      string       `json:"userId"`
	DisplayName string       `json:"displayName"`
	PhotoURL    string       `json:"photoURL"`
	City        string       `json:"city"`
	Points      int          `json:"points"`
	Level       gamify.Level `json:"level"`
}

// FeedEntry is a recent marker joined with its owner's identity. When
// the owner profile is missing the entry still renders with a fallback
// name instead of being dropped.
type FeedEntry struct {
	marker.Marker
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto"`
}

// TrendingEntry ranks a marker by how much discussion it attracted.
type TrendingEntry struct {
	marker.Marker
	Rank          int `json:"rank"`
	CommentsCount int `json:"commentsCount"`
}

// Stats are windowed approximations computed over the currently loaded
// activity and leaderboard pages, not over the whole collection.
type Stats struct {
	TotalMarkers       int     `json:"totalMarkers"`
	UniqueUsers        int     `json:"uniqueUsers"`
	TotalPoints        int     `json:"totalPoints"`
	MostActiveCategory string  `json:"mostActiveCategory"`
	AvgMarkersPerUser  float64 `json:"avgMarkersPerUser"`
}
