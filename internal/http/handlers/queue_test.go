package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/naomijub/MHTH/internal/codec"
	"github.com/naomijub/MHTH/internal/domain"
	"github.com/naomijub/MHTH/internal/repository"
)

type stubOracle struct {
	skill domain.SkillRating
	err   error
}

func (s stubOracle) SkillRating(ctx context.Context, playerID, loadout string) (domain.SkillRating, error) {
	return s.skill, s.err
}

// queueServer wires JoinQueue behind a middleware that plants the given
// user id, standing in for the session auth layer.
func queueServer(t *testing.T, oracle SkillOracle, userID string) (*miniredis.Miniredis, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	h := NewHandler(client, oracle)

	r := gin.New()
	r.POST("/api/v1/queue/join", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		h.JoinQueue(c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return mr, srv
}

func postJoin(t *testing.T, srv *httptest.Server, body map[string]any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	res, err := http.Post(srv.URL+"/api/v1/queue/join", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return res
}

func joinBody(playerID string, joinMode int32) map[string]any {
	return map[string]any{
		"player_id":        playerID,
		"region":           "CAN",
		"ping":             42,
		"difficulty":       1,
		"join_mode":        joinMode,
		"party_mode":       1,
		"party_member_ids": []string{},
		"loadout_config":   "default",
	}
}

func TestJoinQueue_QueuesPlayer(t *testing.T) {
	playerID := uuid.New()
	oracle := stubOracle{skill: domain.SkillRating{Rating: 25.0, LoadoutModifier: 1.0, Uncertainty: 25.0 / 3.0}}
	mr, srv := queueServer(t, oracle, playerID.String())

	res := postJoin(t, srv, joinBody(playerID.String(), int32(domain.JoinOrCreateRoom)))
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["player_id"] != playerID.String() || out["status"] != "waiting in queue" {
		t.Fatalf("unexpected response: %v", out)
	}

	record, err := mr.Get(playerID.String())
	if err != nil {
		t.Fatalf("player record not stored: %v", err)
	}
	if ttl := mr.TTL(playerID.String()); ttl != repository.PlayerRecordTTL {
		t.Fatalf("expected record TTL %v, got %v", repository.PlayerRecordTTL, ttl)
	}

	player, err := codec.Unmarshal[domain.QueuedPlayer]([]byte(record))
	if err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if player.PlayerID != playerID || player.Region != "CAN" || player.Ping != 42 {
		t.Fatalf("record does not match request: %+v", player)
	}
	if player.Skill != oracle.skill {
		t.Fatalf("expected oracle skill on record, got %+v", player.Skill)
	}

	// The queue entry and the record must be byte-identical so the
	// worker's eviction ZRem finds the entry.
	members, err := mr.ZMembers("queue_player:1:CAN")
	if err != nil {
		t.Fatalf("waiting queue not written: %v", err)
	}
	if len(members) != 1 || members[0] != record {
		t.Fatalf("queue entry differs from stored record")
	}

	if mr.Exists("queue_create_match:CAN") {
		t.Fatalf("join-or-create player must not enter the create queue")
	}
}

func TestJoinQueue_CreateRoomAlsoEnqueuesHost(t *testing.T) {
	playerID := uuid.New()
	oracle := stubOracle{skill: domain.SkillRating{Rating: 25.0, LoadoutModifier: 1.0, Uncertainty: 25.0 / 3.0}}
	mr, srv := queueServer(t, oracle, playerID.String())

	res := postJoin(t, srv, joinBody(playerID.String(), int32(domain.CreateRoom)))
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	record, err := mr.Get(playerID.String())
	if err != nil {
		t.Fatalf("player record not stored: %v", err)
	}
	hosts, err := mr.ZMembers("queue_create_match:CAN")
	if err != nil {
		t.Fatalf("create queue not written: %v", err)
	}
	if len(hosts) != 1 || hosts[0] != record {
		t.Fatalf("create queue entry differs from stored record")
	}
}

func TestJoinQueue_BadUUID(t *testing.T) {
	_, srv := queueServer(t, stubOracle{}, "not-a-uuid")

	res := postJoin(t, srv, joinBody("not-a-uuid", 0))
	if res.StatusCode != 400 {
		t.Fatalf("expected 400 for malformed uuid, got %d", res.StatusCode)
	}
}

func TestJoinQueue_UserMismatch(t *testing.T) {
	playerID := uuid.New()
	mr, srv := queueServer(t, stubOracle{}, uuid.NewString())

	res := postJoin(t, srv, joinBody(playerID.String(), 0))
	if res.StatusCode != 401 {
		t.Fatalf("expected 401 for mismatched identity, got %d", res.StatusCode)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("rejected join must not touch the store")
	}
}

func TestJoinQueue_MissingIdentity(t *testing.T) {
	playerID := uuid.New()
	_, srv := queueServer(t, stubOracle{}, "")

	res := postJoin(t, srv, joinBody(playerID.String(), 0))
	if res.StatusCode != 401 {
		t.Fatalf("expected 401 without identity, got %d", res.StatusCode)
	}
}

func TestJoinQueue_OracleDown(t *testing.T) {
	playerID := uuid.New()
	oracle := stubOracle{err: context.DeadlineExceeded}
	mr, srv := queueServer(t, oracle, playerID.String())

	res := postJoin(t, srv, joinBody(playerID.String(), 0))
	if res.StatusCode != 500 {
		t.Fatalf("expected 500 when oracle fails, got %d", res.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "skill oracle failed" {
		t.Fatalf("unexpected error message: %q", out["error"])
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("failed join must not touch the store")
	}
}

func TestJoinQueue_StoreDown(t *testing.T) {
	playerID := uuid.New()
	oracle := stubOracle{skill: domain.SkillRating{Rating: 25.0, LoadoutModifier: 1.0, Uncertainty: 25.0 / 3.0}}
	mr, srv := queueServer(t, oracle, playerID.String())
	mr.Close()

	res := postJoin(t, srv, joinBody(playerID.String(), 0))
	if res.StatusCode != 500 {
		t.Fatalf("expected 500 when store is down, got %d", res.StatusCode)
	}
}
