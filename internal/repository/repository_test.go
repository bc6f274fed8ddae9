package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/naomijub/MHTH/internal/codec"
	"github.com/naomijub/MHTH/internal/domain"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testPlayer(region string, joinTime int64) domain.QueuedPlayer {
	return domain.QueuedPlayer{
		PlayerID:  uuid.New(),
		Skill:     domain.SkillRating{Rating: 25, LoadoutModifier: 1, Uncertainty: 25.0 / 3.0},
		Region:    region,
		Ping:      40,
		JoinMode:  domain.CreateRoom,
		PartyMode: 1,
		JoinTime:  joinTime,
	}
}

func TestPlayerRepository_SaveAndGet(t *testing.T) {
	_, client := newTestStore(t)
	repo := NewPlayerRepository(client)
	ctx := context.Background()

	p := testPlayer("CAN", 100)
	require.NoError(t, repo.SaveRecord(ctx, p))

	got, err := repo.Get(ctx, p.PlayerID)
	require.NoError(t, err)
	require.Equal(t, p.PlayerID, got.PlayerID)
	require.Equal(t, p.Skill, got.Skill)
	require.Equal(t, p.JoinTime, got.JoinTime)
}

func TestPlayerRepository_RecordExpires(t *testing.T) {
	mr, client := newTestStore(t)
	repo := NewPlayerRepository(client)
	ctx := context.Background()

	p := testPlayer("CAN", 100)
	require.NoError(t, repo.SaveRecord(ctx, p))

	mr.FastForward(PlayerRecordTTL + time.Second)

	_, err := repo.Get(ctx, p.PlayerID)
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerRepository_GetMissing(t *testing.T) {
	_, client := newTestStore(t)
	repo := NewPlayerRepository(client)

	_, err := repo.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerRepository_HostQueueOrdering(t *testing.T) {
	_, client := newTestStore(t)
	repo := NewPlayerRepository(client)
	ctx := context.Background()

	late := testPlayer("CAN", 300)
	early := testPlayer("CAN", 100)
	mid := testPlayer("CAN", 200)

	require.NoError(t, repo.EnqueueHost(ctx, late))
	require.NoError(t, repo.EnqueueHost(ctx, early))
	require.NoError(t, repo.EnqueueHost(ctx, mid))

	entries, err := repo.HostQueue(ctx, "CAN")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var times []int64
	for _, raw := range entries {
		p, err := codec.Unmarshal[domain.QueuedPlayer]([]byte(raw))
		require.NoError(t, err)
		times = append(times, p.JoinTime)
	}
	require.Equal(t, []int64{100, 200, 300}, times)
}

func TestPlayerRepository_RemoveAfterDecode(t *testing.T) {
	_, client := newTestStore(t)
	repo := NewPlayerRepository(client)
	ctx := context.Background()

	p := testPlayer("US", 100)
	require.NoError(t, repo.EnqueueWaiting(ctx, p))

	// the worker only ever sees the decoded form; removal relies on the
	// re-encoded bytes matching the stored member exactly
	data, err := codec.Marshal(p)
	require.NoError(t, err)
	decoded, err := codec.Unmarshal[domain.QueuedPlayer](data)
	require.NoError(t, err)

	require.NoError(t, repo.RemoveWaiting(ctx, decoded))

	n, err := client.ZCard(ctx, PlayerQueueKey(p)).Result()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPlayerRepository_RemoveHost(t *testing.T) {
	_, client := newTestStore(t)
	repo := NewPlayerRepository(client)
	ctx := context.Background()

	p := testPlayer("CAN", 100)
	require.NoError(t, repo.EnqueueHost(ctx, p))
	require.NoError(t, repo.RemoveHost(ctx, p))

	entries, err := repo.HostQueue(ctx, "CAN")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMatchRepository_SaveAndDelete(t *testing.T) {
	mr, client := newTestStore(t)
	repo := NewMatchRepository(client)
	ctx := context.Background()

	host := testPlayer("CAN", 100)
	m := domain.Match{ID: uuid.New(), HostID: host.PlayerID, Region: "CAN", Players: []domain.QueuedPlayer{host}}

	require.NoError(t, repo.Save(ctx, m))
	require.True(t, mr.Exists(MatchDataKey(m)))

	require.NoError(t, repo.Delete(ctx, m))
	require.False(t, mr.Exists(MatchDataKey(m)))

	// a second delete of the same key is silently fine
	require.NoError(t, repo.Delete(ctx, m))
}

func TestMatchRepository_ClosedSet(t *testing.T) {
	_, client := newTestStore(t)
	repo := NewMatchRepository(client)
	ctx := context.Background()

	first := domain.Match{ID: uuid.New(), Region: "CAN", Players: []domain.QueuedPlayer{testPlayer("CAN", 1)}}
	second := domain.Match{ID: uuid.New(), Region: "US", Players: []domain.QueuedPlayer{testPlayer("US", 2)}}

	require.NoError(t, repo.Close(ctx, first, 0))
	require.NoError(t, repo.Close(ctx, second, 1))

	entries, err := repo.ClosedEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got, err := codec.Unmarshal[domain.Match]([]byte(entries[0]))
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)

	require.NoError(t, repo.RemoveClosed(ctx, entries[0]))
	entries, err = repo.ClosedEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRegionRepository(t *testing.T) {
	_, client := newTestStore(t)
	repo := NewRegionRepository(client)
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	regions := []string{"CAN", "US", "SOUTH_AMERICA"}
	require.NoError(t, repo.Set(ctx, regions))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, regions, got)
}
