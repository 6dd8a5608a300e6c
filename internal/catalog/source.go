package catalog

import (
	"context"

	"maitred/internal/models"
)

// Source supplies the restaurant catalog the ranker runs against. Each call
// returns a full read-only snapshot; the engine never mutates what it gets.
type Source interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

// StaticSource serves a fixed in-memory catalog. Used for tests and for
// running the engine without a database.
type StaticSource struct {
	Restaurants []models.Restaurant
}

// ListRestaurants implements Source
func (s *StaticSource) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.Restaurants, nil
}
