package repository

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"

	"github.com/naomijub/MHTH/internal/codec"
)

type RegionRepository struct {
	db *redis.Client
}

func NewRegionRepository(db *redis.Client) *RegionRepository {
	return &RegionRepository{db: db}
}

// Set replaces the serviced region list. No TTL: the list persists
// until an operator rewrites it.
func (r *RegionRepository) Set(ctx context.Context, regions []string) error {
	data, err := codec.Marshal(regions)
	if err != nil {
		return err
	}
	return r.db.Set(ctx, RegionsKey, data, 0).Err()
}

// Get loads the serviced regions. A missing key is a valid empty set.
func (r *RegionRepository) Get(ctx context.Context) ([]string, error) {
	data, err := r.db.Get(ctx, RegionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return codec.Unmarshal[[]string](data)
}
