package comment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"backend-communitymap/internal/db"
	"backend-communitymap/internal/stream"

	"github.com/google/uuid"
)

const maxTextLen = 300

var ErrValidation = errors.New("invalid comment")

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(q db.Querier, hub *stream.Hub) *Service {
	return &Service{db: q, hub: hub}
}

func (s *Service) Add(ctx context.Context, markerID, userID, text string) (Comment, error) {
	text = strings.TrimSpace(text)
	if userID == "" {
		return Comment{}, fmt.Errorf("%w: usuário não autenticado", ErrValidation)
	}
	if text == "" {
		return Comment{}, fmt.Errorf("%w: comentário vazio", ErrValidation)
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		return Comment{}, fmt.Errorf("%w: comentário com mais de %d caracteres", ErrValidation, maxTextLen)
	}

	c := Comment{
		ID:       uuid.NewString(),
		MarkerID: markerID,
		UserID:   userID,
		Text:     text,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO marker_comments (id, marker_id, user_id, text)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, c.ID, c.MarkerID, c.UserID, c.Text)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Comment{}, err
	}

	s.broadcastSnapshot(ctx, markerID)
	return c, nil
}

func (s *Service) ListByMarker(ctx context.Context, markerID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, marker_id, user_id, text, created_at
		FROM marker_comments WHERE marker_id=$1
		ORDER BY created_at DESC
	`, markerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.MarkerID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// CountByMarkers returns per-marker comment counts for the trending
// ranking. Markers without comments are simply absent from the map.
func (s *Service) CountByMarkers(ctx context.Context, markerIDs []string) (map[string]int, error) {
	if len(markerIDs) == 0 {
		return map[string]int{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT marker_id, COUNT(*)
		FROM marker_comments WHERE marker_id = ANY($1)
		GROUP BY marker_id
	`, markerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, nil
}

func (s *Service) broadcastSnapshot(ctx context.Context, markerID string) {
	if s.hub == nil {
		return
	}
	comments, err := s.ListByMarker(ctx, markerID)
	if err != nil {
		log.Printf("comment snapshot load failed for %s: %v", markerID, err)
		return
	}
	if comments == nil {
		comments = []Comment{}
	}
	payload, err := json.Marshal(comments)
	if err != nil {
		log.Printf("comment snapshot encode failed for %s: %v", markerID, err)
		return
	}
	s.hub.Broadcast("markers:"+markerID+":comments", payload)
}
