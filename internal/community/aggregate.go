package community

import (
	"math"
	"sort"

	"backend-communitymap/internal/gamify"
	"backend-communitymap/internal/marker"
	"backend-communitymap/internal/profile"
)

// The aggregators below are pure functions over snapshot slices. They
// are recomputed in full on every change of their inputs; no state is
// carried between calls and nothing they produce is persisted.

const fallbackUserName = "Usuário"

// RankLeaderboard orders profiles by points descending and assigns
// ranks. The sort is stable: profiles tied on points keep the relative
// order of the input window.
func RankLeaderboard(profiles []profile.Profile, n int) []LeaderboardEntry {
	ordered := make([]profile.Profile, len(profiles))
	copy(ordered, profiles)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Points > ordered[j].Points
	})

	if n > 0 && len(ordered) > n {
		ordered = ordered[:n]
	}

	entries := make([]LeaderboardEntry, 0, len(ordered))
	for i, p := range ordered {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			PhotoURL:    p.PhotoURL,
			City:        p.City,
			Points:      p.Points,
			Level:       gamify.LevelOf(p.Points),
		})
	}
	return entries
}

// BuildFeed joins markers with their owner profiles. A marker whose
// owner cannot be resolved is kept with a fallback identity; entries
// never block on or get dropped by a failed join.
func BuildFeed(markers []marker.Marker, owners map[string]profile.Profile) []FeedEntry {
	entries := make([]FeedEntry, 0, len(markers))
	for _, m := range markers {
		entry := FeedEntry{Marker: m, UserName: fallbackUserName}
		if p, ok := owners[m.UserID]; ok {
			if p.DisplayName != "" {
				entry.UserName = p.DisplayName
			}
			entry.UserPhoto = p.PhotoURL
		}
		entries = append(entries, entry)
	}
	return entries
}

// RankTrending orders the recent window by comment count descending and
// keeps the top k. Ties preserve the input (recency) order.
func RankTrending(markers []marker.Marker, counts map[string]int, k int) []TrendingEntry {
	ordered := make([]marker.Marker, len(markers))
	copy(ordered, markers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i].ID] > counts[ordered[j].ID]
	})

	if k > 0 && len(ordered) > k {
		ordered = ordered[:k]
	}

	entries := make([]TrendingEntry, 0, len(ordered))
	for i, m := range ordered {
		entries = append(entries, TrendingEntry{
			Marker:        m,
			Rank:          i + 1,
			CommentsCount: counts[m.ID],
		})
	}
	return entries
}

// BuildStats aggregates over the loaded windows only: marker totals and
// category spread come from the activity page, the points total from
// the leaderboard page. It is an approximation, not a global count.
func BuildStats(markers []marker.Marker, leaderboard []profile.Profile) Stats {
	stats := Stats{
		TotalMarkers:       len(markers),
		MostActiveCategory: "N/A",
	}

	owners := map[string]struct{}{}
	categoryCounts := map[string]int{}
	for _, m := range markers {
		owners[m.UserID] = struct{}{}
		categoryCounts[m.Category]++
		// first-encountered category wins ties
		if categoryCounts[m.Category] > categoryCounts[stats.MostActiveCategory] {
			stats.MostActiveCategory = m.Category
		}
	}
	stats.UniqueUsers = len(owners)

	for _, p := range leaderboard {
		stats.TotalPoints += p.Points
	}

	if stats.UniqueUsers > 0 {
		avg := float64(stats.TotalMarkers) / float64(stats.UniqueUsers)
		stats.AvgMarkersPerUser = math.Round(avg*10) / 10
	}
	return stats
}
