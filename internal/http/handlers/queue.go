package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/naomijub/MHTH/internal/domain"
	"github.com/naomijub/MHTH/internal/logger"
)

// JoinQueueRequest is the queue entry submitted by a player.
type JoinQueueRequest struct {
	PlayerID       string   `json:"player_id" binding:"required"`
	Region         string   `json:"region" binding:"required"`
	Ping           int32    `json:"ping"`
	Difficulty     int32    `json:"difficulty"`
	JoinMode       int32    `json:"join_mode"`
	PartyMode      int32    `json:"party_mode"`
	PartyMemberIDs []string `json:"party_member_ids"`
	LoadoutConfig  string   `json:"loadout_config"`
}

// JoinQueue handles the queue entry endpoint. The record write comes
// before the queue inserts so the worker never sees a queued id with no
// record behind it.
func (h *Handler) JoinQueue(c *gin.Context) {
	var req JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		JoinRejected.WithLabelValues("invalid_body").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		JoinRejected.WithLabelValues("invalid_player_id").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return
	}

	userID, ok := getUserID(c)
	if !ok || userID != req.PlayerID {
		JoinRejected.WithLabelValues("auth_mismatch").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authorized for this player"})
		return
	}

	ctx := c.Request.Context()

	skill, err := h.Oracle.SkillRating(ctx, req.PlayerID, req.LoadoutConfig)
	if err != nil {
		logger.Error("skill oracle lookup failed", "player_id", req.PlayerID, "error", err)
		JoinRejected.WithLabelValues("oracle").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "skill oracle failed"})
		return
	}

	player := domain.QueuedPlayer{
		PlayerID:   playerID,
		Skill:      skill,
		Region:     req.Region,
		Ping:       req.Ping,
		Difficulty: req.Difficulty,
		JoinMode:   domain.JoinMode(req.JoinMode),
		PartyMode:  req.PartyMode,
		PartyIDs:   req.PartyMemberIDs,
		JoinTime:   domain.Now(),
	}

	if err := h.Players.SaveRecord(ctx, player); err != nil {
		logger.Error("failed to save player record", "player_id", req.PlayerID, "error", err)
		JoinRejected.WithLabelValues("store").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue player"})
		return
	}

	if err := h.Players.EnqueueWaiting(ctx, player); err != nil {
		logger.Error("failed to enqueue player", "player_id", req.PlayerID, "error", err)
		JoinRejected.WithLabelValues("store").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue player"})
		return
	}

	if player.JoinMode == domain.CreateRoom {
		// The record and waiting entry are in, so a failed host insert
		// only delays the player until a later join refreshes it.
		if err := h.Players.EnqueueHost(ctx, player); err != nil {
			logger.Error("failed to enqueue host", "player_id", req.PlayerID, "error", err)
		}
	}

	JoinAccepted.Inc()
	logger.Debug("player queued",
		"player_id", req.PlayerID,
		"region", req.Region,
		"join_mode", req.JoinMode,
		"party_size", len(req.PartyMemberIDs),
	)
	c.JSON(http.StatusOK, gin.H{
		"player_id": req.PlayerID,
		"status":    "waiting in queue",
	})
}
