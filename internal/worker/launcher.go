package worker

import (
	"context"

	"github.com/samber/lo"

	"github.com/naomijub/MHTH/internal/domain"
	"github.com/naomijub/MHTH/internal/logger"
)

// Launcher hands a closed match to the external session server.
type Launcher interface {
	Start(ctx context.Context, m domain.Match) error
}

// LogLauncher records the start event instead of contacting a session
// server. It is the default until the game server exposes its
// start-match RPC.
type LogLauncher struct{}

func (LogLauncher) Start(_ context.Context, m domain.Match) error {
	logger.Info("start match",
		"match_id", m.ID.String(),
		"host_id", m.HostID.String(),
		"region", m.Region,
		"players", lo.Map(m.Players, func(p domain.QueuedPlayer, _ int) string {
			return p.PlayerID.String()
		}),
	)
	return nil
}
