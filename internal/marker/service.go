package marker

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
	"github.com/jackc/pgx/v5"
)

var (
	ErrValidation = errors.New("invalid marker")
	ErrNotFound   = errors.New("marker not found")
	ErrNotOwner   = errors.New("marker owned by another user")
)

// Awarder credits points to a profile. The award on create is a second,
// independent write: not transactional with the marker insert.
type Awarder interface {
	AwardPoints(ctx context.Context, userID string, n int) error
}

// StreamTopic is where complete marker snapshots are broadcast after
// every successful mutation.
const StreamTopic = "markers"

type Service struct {
	db      db.Querier
	hub     *stream.Hub
	awarder Awarder
	reward  int
}

func NewService(q db.Querier, hub *stream.Hub, awarder Awarder, reward int) *Service {
	return &Service{db: q, hub: hub, awarder: awarder, reward: reward}
}

// Create validates and inserts a marker, then awards the owner the
// configured reward. The award is best-effort: on failure the marker
// stands, the loss is logged and never retried here.
func (s *Service) Create(ctx context.Context, input Marker) (Marker, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Desc = strings.TrimSpace(input.Desc)
	if err := validate(input); err != nil {
		return Marker{}, err
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO markers (id, user_id, lat, lng, title, description, category, photo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, input.ID, input.UserID, input.Position[0], input.Position[1], input.Title, input.Desc, input.Category, input.PhotoURL)
	if err := row.Scan(&input.Timestamp); err != nil {
		return Marker{}, err
	}

	if s.awarder != nil {
		if err := s.awarder.AwardPoints(ctx, input.UserID, s.reward); err != nil {
			log.Printf("point award failed for marker %s (owner %s): %v", input.ID, input.UserID, err)
		}
	}

	s.broadcastSnapshot(ctx)
	return input, nil
}

// List returns the full unfiltered collection for the map view.
func (s *Service) List(ctx context.Context) ([]Marker, error) {
	return s.query(ctx, `
		SELECT id, user_id, lat, lng, title, description, category, photo_url, created_at
		FROM markers
		ORDER BY created_at DESC
	`)
}

// Recent returns the newest markers, capped to the activity window.
func (s *Service) Recent(ctx context.Context, limit int) ([]Marker, error) {
	return s.query(ctx, `
		SELECT id, user_id, lat, lng, title, description, category, photo_url, created_at
		FROM markers
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Marker, error) {
	return s.query(ctx, `
		SELECT id, user_id, lat, lng, title, description, category, photo_url, created_at
		FROM markers
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
}

// Update replaces the mutable fields (title, desc, category, photo).
// Only the owner may update; concurrent edits are last-write-wins.
func (s *Service) Update(ctx context.Context, id, callerID string, req UpdateRequest) (Marker, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return Marker{}, err
	}
	if m.UserID != callerID {
		return Marker{}, ErrNotOwner
	}

	if req.Title != "" {
		m.Title = strings.TrimSpace(req.Title)
	}
	if req.Desc != "" {
		m.Desc = strings.TrimSpace(req.Desc)
	}
	if req.Category != "" {
		m.Category = req.Category
	}
	if req.PhotoURL != "" {
		m.PhotoURL = req.PhotoURL
	}
	if err := validate(m); err != nil {
		return Marker{}, err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE markers
		SET title=$2, description=$3, category=$4, photo_url=$5
		WHERE id=$1
	`, m.ID, m.Title, m.Desc, m.Category, m.PhotoURL)
	if err != nil {
		return Marker{}, err
	}

	s.broadcastSnapshot(ctx)
	return m, nil
}

// Delete removes the caller's marker. A marker already deleted elsewhere
// is a silent no-op: the next snapshot reconciles every consumer anyway.
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	m, err := s.get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if m.UserID != callerID {
		return ErrNotOwner
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM markers WHERE id=$1`, id); err != nil {
		return err
	}

	s.broadcastSnapshot(ctx)
	return nil
}

func (s *Service) get(ctx context.Context, id string) (Marker, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, lat, lng, title, description, category, photo_url, created_at
		FROM markers WHERE id=$1
	`, id)
	m, err := scanMarker(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Marker{}, ErrNotFound
	}
	if err != nil {
		return Marker{}, err
	}
	return m, nil
}

func (s *Service) query(ctx context.Context, sql string, args ...any) ([]Marker, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markers []Marker
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMarker(row rowScanner) (Marker, error) {
	var m Marker
	var lat, lng *float64
	if err := row.Scan(&m.ID, &m.UserID, &lat, &lng, &m.Title, &m.Desc, &m.Category, &m.PhotoURL, &m.Timestamp); err != nil {
		return Marker{}, err
	}
	// malformed rows without a position are kept, not crashed on
	if lat != nil && lng != nil {
		m.Position = []float64{*lat, *lng}
	}
	return m, nil
}

func validate(m Marker) error {
	if m.UserID == "" {
		return fmt.Errorf("%w: usuário não autenticado", ErrValidation)
	}
	if m.Title == "" {
		return fmt.Errorf("%w: título é obrigatório", ErrValidation)
	}
	if utf8.RuneCountInString(m.Title) > maxTitleLen {
		return fmt.Errorf("%w: título com mais de %d caracteres", ErrValidation, maxTitleLen)
	}
	if m.Desc == "" {
		return fmt.Errorf("%w: descrição é obrigatória", ErrValidation)
	}
	if utf8.RuneCountInString(m.Desc) > maxDescLen {
		return fmt.Errorf("%w: descrição com mais de %d caracteres", ErrValidation, maxDescLen)
	}
	if !KnownCategory(m.Category) {
		return fmt.Errorf("%w: categoria desconhecida %q", ErrValidation, m.Category)
	}
	if len(m.Position) != 2 {
		return fmt.Errorf("%w: posição é obrigatória", ErrValidation)
	}
	if m.Position[0] < -90 || m.Position[0] > 90 || m.Position[1] < -180 || m.Position[1] > 180 {
		return fmt.Errorf("%w: posição fora do intervalo", ErrValidation)
	}
	return nil
}

// broadcastSnapshot pushes the complete current collection to the
// markers topic. Consumers treat each push as the authoritative state,
// never a delta, so reconnects need no replay.
func (s *Service) broadcastSnapshot(ctx context.Context) {
	if s.hub == nil {
		return
	}
	markers, err := s.List(ctx)
	if err != nil {
		log.Printf("marker snapshot load failed: %v", err)
		return
	}
	if markers == nil {
		markers = []Marker{}
	}
	payload, err := json.Marshal(markers)
	if err != nil {
		log.Printf("marker snapshot encode failed: %v", err)
		return
	}
	s.hub.Broadcast(StreamTopic, payload)
}
