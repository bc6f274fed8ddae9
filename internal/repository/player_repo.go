package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/naomijub/MHTH/internal/codec"
	"github.com/naomijub/MHTH/internal/domain"
)

// PlayerRecordTTL bounds how long an unseated player record stays live.
// Queue entries carry no TTL; a queued id without a record means the
// player expired or was already seated.
const PlayerRecordTTL = 600 * time.Second

var ErrPlayerNotFound = errors.New("player record not found")

type PlayerRepository struct {
	db *redis.Client
}

func NewPlayerRepository(db *redis.Client) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// SaveRecord writes the per-player record under the player's own id.
// Record writes happen before queue inserts so the worker never sees a
// queued id whose record was never written.
func (r *PlayerRepository) SaveRecord(ctx context.Context, p domain.QueuedPlayer) error {
	data, err := codec.Marshal(p)
	if err != nil {
		return err
	}
	return r.db.Set(ctx, p.PlayerID.String(), data, PlayerRecordTTL).Err()
}

// Get loads one player record. A missing or expired record returns
// ErrPlayerNotFound.
func (r *PlayerRepository) Get(ctx context.Context, id uuid.UUID) (domain.QueuedPlayer, error) {
	data, err := r.db.Get(ctx, id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QueuedPlayer{}, ErrPlayerNotFound
	}
	if err != nil {
		return domain.QueuedPlayer{}, err
	}
	return codec.Unmarshal[domain.QueuedPlayer](data)
}

// EnqueueWaiting appends the player to its (party_mode, region) bucket,
// scored by join time.
func (r *PlayerRepository) EnqueueWaiting(ctx context.Context, p domain.QueuedPlayer) error {
	data, err := codec.Marshal(p)
	if err != nil {
		return err
	}
	return r.db.ZAdd(ctx, PlayerQueueKey(p), redis.Z{
		Score:  float64(p.JoinTime),
		Member: data,
	}).Err()
}

// EnqueueHost appends a would-be host to its region's create queue.
func (r *PlayerRepository) EnqueueHost(ctx context.Context, p domain.QueuedPlayer) error {
	data, err := codec.Marshal(p)
	if err != nil {
		return err
	}
	return r.db.ZAdd(ctx, CreateMatchQueueKey(p.Region), redis.Z{
		Score:  float64(p.JoinTime),
		Member: data,
	}).Err()
}

// RemoveWaiting deletes the byte-identical queue entry for p.
func (r *PlayerRepository) RemoveWaiting(ctx context.Context, p domain.QueuedPlayer) error {
	data, err := codec.Marshal(p)
	if err != nil {
		return err
	}
	return r.db.ZRem(ctx, PlayerQueueKey(p), data).Err()
}

// RemoveHost deletes the byte-identical create-queue entry for p.
func (r *PlayerRepository) RemoveHost(ctx context.Context, p domain.QueuedPlayer) error {
	data, err := codec.Marshal(p)
	if err != nil {
		return err
	}
	return r.db.ZRem(ctx, CreateMatchQueueKey(p.Region), data).Err()
}

// HostQueue returns the raw encoded entries of one region's create
// queue in score order. Callers decode entry by entry so one corrupt
// member cannot poison the whole scan.
func (r *PlayerRepository) HostQueue(ctx context.Context, region string) ([]string, error) {
	return r.db.ZRange(ctx, CreateMatchQueueKey(region), 0, -1).Result()
}
