package profile

import (
	"time"

	"backend-communitymap/internal/gamify"
)

// Profile is the community-facing record of an authenticated identity.
// Points only ever grow; the level is derived, never stored.
type Profile struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	CoverURL    string    `json:"coverURL"`
	Bio         string    `json:"bio"`
	City        string    `json:"city"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UpdateRequest struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	City        string `json:"city"`
	PhotoURL    string `json:"photoURL"`
	CoverURL    string `json:"coverURL"`
}

// Summary is the Profile screen view model: the stored record plus
// everything recomputed from it on each request.
type Summary struct {
	Profile      Profile             `json:"profile"`
	MarkerCount  int                 `json:"markerCount"`
	Level        gamify.Level        `json:"level"`
	Progress     float64             `json:"progress"`
	NextLevelAt  int                 `json:"nextLevelAt"`
	Achievements []gamify.Achievement `json:"achievements"`
}
