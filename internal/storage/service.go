package storage

import (
	"context"
	"errors"

	"backend-communitymap/internal/db"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("object not found")

// Store is the asset gateway the rest of the system depends on: bytes
// go in under a caller-chosen key, a durable locator comes back that is
// directly usable as an image source. Puts under the same key are not
// idempotent; callers derive a fresh key per upload.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
}

const locatorPrefix = "/storage/objects/"

// Service is the Postgres-backed Store.
type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

func (s *Service) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO storage_objects (key, data, content_type)
		VALUES ($1,$2,$3)
	`, key, data, contentType)
	if err != nil {
		return "", err
	}
	return locatorPrefix + key, nil
}

func (s *Service) Get(ctx context.Context, key string) ([]byte, string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT data, content_type FROM storage_objects WHERE key=$1
	`, key)
	var data []byte
	var contentType string
	if err := row.Scan(&data, &contentType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return data, contentType, nil
}
