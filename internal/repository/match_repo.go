package repository

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/naomijub/MHTH/internal/codec"
	"github.com/naomijub/MHTH/internal/domain"
)

// MatchTTL keeps an open match record alive well past the ten-minute
// player record churn window.
const MatchTTL = 7200 * time.Second

type MatchRepository struct {
	db *redis.Client
}

func NewMatchRepository(db *redis.Client) *MatchRepository {
	return &MatchRepository{db: db}
}

// Save persists the open match under match:<id>.
func (r *MatchRepository) Save(ctx context.Context, m domain.Match) error {
	data, err := codec.Marshal(m)
	if err != nil {
		return err
	}
	return r.db.Set(ctx, MatchDataKey(m), data, MatchTTL).Err()
}

// Delete drops an open match record, relinquishing its TTL. Deleting a
// record that already expired is not an error.
func (r *MatchRepository) Delete(ctx context.Context, m domain.Match) error {
	return r.db.Del(ctx, MatchDataKey(m)).Err()
}

// Close inserts the match into the closed set at the given drain index.
func (r *MatchRepository) Close(ctx context.Context, m domain.Match, index int) error {
	data, err := codec.Marshal(m)
	if err != nil {
		return err
	}
	return r.db.ZAdd(ctx, ClosedMatchesKey, redis.Z{
		Score:  float64(index),
		Member: data,
	}).Err()
}

// ClosedEntries returns the raw encoded closed matches in score order.
func (r *MatchRepository) ClosedEntries(ctx context.Context) ([]string, error) {
	return r.db.ZRange(ctx, ClosedMatchesKey, 0, -1).Result()
}

// RemoveClosed deletes one raw entry from the closed set. The member
// must be the exact bytes returned by ClosedEntries.
func (r *MatchRepository) RemoveClosed(ctx context.Context, member string) error {
	return r.db.ZRem(ctx, ClosedMatchesKey, member).Err()
}
