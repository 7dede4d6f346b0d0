package profile

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"backend-communitymap/internal/db"
	"backend-communitymap/internal/gamify"
)

const maxBioLen = 200

var ErrValidation = errors.New("invalid profile")

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Ensure creates the profile on first sign-in and refreshes display name
// and photo from the identity provider when those values are non-empty.
// Bio, city and points are never touched by sign-in.
func (s *Service) Ensure(ctx context.Context, userID, displayName, photoURL string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (user_id, display_name, photo_url)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), profiles.display_name),
			photo_url    = COALESCE(NULLIF(EXCLUDED.photo_url, ''), profiles.photo_url)
	`, userID, displayName, photoURL)
	return err
}

func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, display_name, photo_url, cover_url, bio, city, points, created_at
		FROM profiles WHERE user_id=$1
	`, userID)
	var p Profile
	if err := row.Scan(&p.UserID, &p.DisplayName, &p.PhotoURL, &p.CoverURL, &p.Bio, &p.City, &p.Points, &p.CreatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// TopByPoints returns the leaderboard source window: points descending,
// creation time ascending as the deterministic tie-break.
func (s *Service) TopByPoints(ctx context.Context, limit int) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id, display_name, photo_url, cover_url, bio, city, points, created_at
		FROM profiles
		ORDER BY points DESC, created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.PhotoURL, &p.CoverURL, &p.Bio, &p.City, &p.Points, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// ByIDs loads the profiles joined into feed entries, keyed by owner.
// Absent IDs are simply missing from the map; callers substitute a
// fallback identity rather than dropping the entry.
func (s *Service) ByIDs(ctx context.Context, userIDs []string) (map[string]Profile, error) {
	if len(userIDs) == 0 {
		return map[string]Profile{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT user_id, display_name, photo_url, cover_url, bio, city, points, created_at
		FROM profiles WHERE user_id = ANY($1)
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := map[string]Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.UserID, &p.DisplayName, &p.PhotoURL, &p.CoverURL, &p.Bio, &p.City, &p.Points, &p.CreatedAt); err != nil {
			return nil, err
		}
		profiles[p.UserID] = p
	}
	return profiles, nil
}

func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if req.DisplayName != "" {
		p.DisplayName = req.DisplayName
	}
	if req.Bio != "" {
		p.Bio = req.Bio
	}
	if req.City != "" {
		p.City = req.City
	}
	if req.PhotoURL != "" {
		p.PhotoURL = req.PhotoURL
	}
	if req.CoverURL != "" {
		p.CoverURL = req.CoverURL
	}
	if utf8.RuneCountInString(p.Bio) > maxBioLen {
		return Profile{}, fmt.Errorf("%w: bio com mais de %d caracteres", ErrValidation, maxBioLen)
	}

	_, err = s.db.Exec(ctx, `
		UPDATE profiles
		SET display_name=$2, bio=$3, city=$4, photo_url=$5, cover_url=$6
		WHERE user_id=$1
	`, p.UserID, p.DisplayName, p.Bio, p.City, p.PhotoURL, p.CoverURL)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// AwardPoints adds n to the owner's score. The column never decreases;
// award logic is the only writer of points.
func (s *Service) AwardPoints(ctx context.Context, userID string, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		UPDATE profiles SET points = points + $2 WHERE user_id=$1
	`, userID, n)
	return err
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	var markerCount int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM markers WHERE user_id=$1`, userID).Scan(&markerCount); err != nil {
		return Summary{}, err
	}

	return Summary{
		Profile:      p,
		MarkerCount:  markerCount,
		Level:        gamify.LevelOf(p.Points),
		Progress:     gamify.Progress(p.Points),
		NextLevelAt:  gamify.NextThreshold(p.Points),
		Achievements: gamify.Achievements(markerCount, p.Points),
	}, nil
}
