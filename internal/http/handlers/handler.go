package handlers

import (
	"context"

	"github.com/naomijub/MHTH/internal/domain"
	"github.com/naomijub/MHTH/internal/repository"

	"github.com/redis/go-redis/v9"
)

// SkillOracle resolves a player's current skill rating from an external
// source. *nakama.AuthenticatedClient satisfies it in production.
type SkillOracle interface {
	SkillRating(ctx context.Context, playerID, loadout string) (domain.SkillRating, error)
}

type Handler struct {
	DB      *redis.Client
	Players *repository.PlayerRepository
	Oracle  SkillOracle
}

func NewHandler(db *redis.Client, oracle SkillOracle) *Handler {
	return &Handler{
		DB:      db,
		Players: repository.NewPlayerRepository(db),
		Oracle:  oracle,
	}
}

// getUserID pulls the authenticated user id out of the Gin context.
func getUserID(c interface{ Get(string) (any, bool) }) (string, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	if v, ok := uidVal.(string); ok {
		return v, true
	}
	return "", false
}
