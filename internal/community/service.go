package community

import (
	"context"

	"backend-communitymap/internal/comment"
	"backend-communitymap/internal/marker"
	"backend-communitymap/internal/profile"
)

// Window sizes for the derived views. Everything downstream of these is
// a bounded page, so every aggregate is a windowed approximation.
const (
	feedWindow       = 50
	trendingWindow   = 100
	trendingTop      = 10
	leaderboardTop   = 20
	userDirectoryTop = 100
)

type Service struct {
	markers  *marker.Service
	comments *comment.Service
	profiles *profile.Service
}

func NewService(markers *marker.Service, comments *comment.Service, profiles *profile.Service) *Service {
	return &Service{markers: markers, comments: comments, profiles: profiles}
}

// Feed joins the recent marker window with owner profiles. A failed or
// missing profile lookup never drops an entry; the join falls back per
// entry instead of blocking the whole feed.
func (s *Service) Feed(ctx context.Context) ([]FeedEntry, error) {
	markers, err := s.markers.Recent(ctx, feedWindow)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(markers))
	seen := map[string]struct{}{}
	for _, m := range markers {
		if _, ok := seen[m.UserID]; !ok {
			seen[m.UserID] = struct{}{}
			ids = append(ids, m.UserID)
		}
	}

	owners, err := s.profiles.ByIDs(ctx, ids)
	if err != nil {
		// render with fallback identities rather than failing the feed
		owners = map[string]profile.Profile{}
	}
	return BuildFeed(markers, owners), nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > leaderboardTop {
		limit = leaderboardTop
	}
	profiles, err := s.profiles.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}
	return RankLeaderboard(profiles, limit), nil
}

func (s *Service) Trending(ctx context.Context) ([]TrendingEntry, error) {
	markers, err := s.markers.Recent(ctx, trendingWindow)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(markers))
	for _, m := range markers {
		ids = append(ids, m.ID)
	}
	counts, err := s.comments.CountByMarkers(ctx, ids)
	if err != nil {
		return nil, err
	}
	return RankTrending(markers, counts, trendingTop), nil
}

// Stats aggregates the loaded windows; see BuildStats for the caveats.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	markers, err := s.markers.Recent(ctx, feedWindow)
	if err != nil {
		return Stats{}, err
	}
	leaderboard, err := s.profiles.TopByPoints(ctx, leaderboardTop)
	if err != nil {
		return Stats{}, err
	}
	return BuildStats(markers, leaderboard), nil
}

// Users is the community directory, ordered like the leaderboard.
func (s *Service) Users(ctx context.Context) ([]profile.Profile, error) {
	return s.profiles.TopByPoints(ctx, userDirectoryTop)
}
