package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/naomijub/MHTH/internal/codec"
	"github.com/naomijub/MHTH/internal/domain"
	"github.com/naomijub/MHTH/internal/logger"
	"github.com/naomijub/MHTH/internal/repository"
)

// Worker drains the region create queues on a fixed interval, forms
// matches around hosts, and hands full ones to the session launcher.
// Exactly one worker runs per process; matches below capacity are
// carried in memory between ticks, everything else lives in the store.
type Worker struct {
	players  *repository.PlayerRepository
	matches  *repository.MatchRepository
	regions  *repository.RegionRepository
	launcher Launcher
	interval time.Duration

	open      []domain.Match
	scheduled atomic.Bool
}

func New(db *redis.Client, launcher Launcher, interval time.Duration) *Worker {
	return &Worker{
		players:  repository.NewPlayerRepository(db),
		matches:  repository.NewMatchRepository(db),
		regions:  repository.NewRegionRepository(db),
		launcher: launcher,
		interval: interval,
	}
}

// Scheduled reports whether the run loop is live. The health endpoints
// report SERVING only while it is.
func (w *Worker) Scheduled() bool {
	return w.scheduled.Load()
}

// Run ticks until ctx is cancelled. Ticks never overlap; cancellation
// lands between ticks, so mid-tick work always completes.
func (w *Worker) Run(ctx context.Context) {
	w.scheduled.Store(true)
	defer w.scheduled.Store(false)

	logger.Info("matchmaking worker started", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("matchmaking worker stopped")
			return
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one matchmaking pass: form matches from the create queues,
// evict seated players, promote full matches, start everything closed.
// A store failure while loading regions ends the tick early; every
// later failure is local to its host or match.
func (w *Worker) Tick(ctx context.Context) {
	TickRuns.Inc()
	if err := w.formMatches(ctx); err != nil {
		TickFailures.Inc()
		logger.Error("matchmaking pass failed", "error", err)
		return
	}
	w.startMatches(ctx)
	OpenMatches.Set(float64(len(w.open)))
}

func (w *Worker) formMatches(ctx context.Context) error {
	regions, err := w.regions.Get(ctx)
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		logger.Warn("no regions registered, skipping matchmaking pass")
		return nil
	}

	for _, region := range regions {
		entries, err := w.players.HostQueue(ctx, region)
		if err != nil {
			logger.Warn("failed to read create queue", "region", region, "error", err)
			continue
		}
		for _, entry := range entries {
			host, err := codec.Unmarshal[domain.QueuedPlayer]([]byte(entry))
			if err != nil {
				logger.Warn("skipping undecodable create queue entry", "region", region, "error", err)
				continue
			}
			created, err := w.createMatch(ctx, host)
			switch {
			case err != nil:
				logger.Error("failed to create match", "player_id", host.PlayerID.String(), "error", err)
			case created:
				logger.Info("match created", "player_id", host.PlayerID.String())
				MatchesFormed.Inc()
			default:
				logger.Error("match not created", "player_id", host.PlayerID.String())
			}
		}
	}

	w.evictSeated(ctx)
	w.promoteFull(ctx)

	return nil
}

// createMatch forms a match around host with whatever part of its party
// is still live. False with a nil error means the entry was skipped
// because the player is not a CreateRoom host.
func (w *Worker) createMatch(ctx context.Context, host domain.QueuedPlayer) (bool, error) {
	if host.JoinMode != domain.CreateRoom {
		return false, nil
	}

	party := make([]domain.QueuedPlayer, 0, len(host.PartyIDs))
	for _, friend := range host.PartyIDs {
		friendID, err := uuid.Parse(friend)
		if err != nil {
			return false, fmt.Errorf("invalid friend id %q: %w", friend, err)
		}

		friendData, err := w.players.Get(ctx, friendID)
		if errors.Is(err, repository.ErrPlayerNotFound) {
			// Never queued, expired, or already seated.
			continue
		}
		if err != nil {
			return false, err
		}
		party = append(party, friendData)
	}

	m, err := domain.HostMatch(host, party)
	if err != nil {
		return false, err
	}

	if err := w.matches.Save(ctx, m); err != nil {
		return false, err
	}
	w.open = append(w.open, m)

	return true, nil
}

// evictSeated removes every seated player's queue entries, the host's
// create queue entry included. Eviction is best-effort; a leaked entry
// decodes to a player whose record is gone and gets dropped later.
func (w *Worker) evictSeated(ctx context.Context) {
	for _, m := range w.open {
		for _, p := range m.Players {
			if err := w.players.RemoveWaiting(ctx, p); err != nil {
				logger.Warn("failed to remove seated player from queue", "player_id", p.PlayerID.String(), "error", err)
			}
			if p.PlayerID == m.HostID {
				if err := w.players.RemoveHost(ctx, p); err != nil {
					logger.Warn("failed to remove host from create queue", "player_id", p.PlayerID.String(), "error", err)
				}
			}
		}
	}
}

// promoteFull moves matches at capacity from the open list to the
// closed set, scored by their position in this tick's enumeration. A
// match whose store writes fail stays open for the next tick.
func (w *Worker) promoteFull(ctx context.Context) {
	keep := make([]domain.Match, 0, len(w.open))
	for i, m := range w.open {
		if !m.Full() {
			keep = append(keep, m)
			continue
		}
		if err := w.matches.Delete(ctx, m); err != nil {
			logger.Error("failed to drop open match record", "match_id", m.ID.String(), "error", err)
			keep = append(keep, m)
			continue
		}
		if err := w.matches.Close(ctx, m, i); err != nil {
			logger.Error("failed to close match", "match_id", m.ID.String(), "error", err)
			keep = append(keep, m)
		}
	}
	w.open = keep
}

type closedEntry struct {
	match domain.Match
	raw   string
}

// startMatches drains the closed set: notify the launcher, then remove
// the entry. Entries whose removal fails are not counted and will fire
// again next tick.
func (w *Worker) startMatches(ctx context.Context) int {
	entries, err := w.matches.ClosedEntries(ctx)
	if err != nil {
		logger.Warn("failed to read closed matches", "error", err)
		return 0
	}

	closed := lo.FilterMap(entries, func(raw string, _ int) (closedEntry, bool) {
		m, err := codec.Unmarshal[domain.Match]([]byte(raw))
		if err != nil {
			logger.Warn("skipping undecodable closed match entry", "error", err)
			return closedEntry{}, false
		}
		return closedEntry{match: m, raw: raw}, true
	})

	count := 0
	for _, entry := range closed {
		if err := w.launcher.Start(ctx, entry.match); err != nil {
			logger.Error("failed to start match", "match_id", entry.match.ID.String(), "error", err)
			continue
		}
		if err := w.matches.RemoveClosed(ctx, entry.raw); err != nil {
			logger.Error("failed to remove started match", "match_id", entry.match.ID.String(), "error", err)
			continue
		}
		MatchesStarted.Inc()
		count++
	}

	return count
}
