package domain

import "github.com/google/uuid"

// JoinMode is how a player wants to enter a session: host a fresh room,
// join an existing one, or take whichever comes first.
type JoinMode int32

const (
	JoinOrCreateRoom JoinMode = 0
	JoinRoom         JoinMode = 1
	CreateRoom       JoinMode = 2
)

// SkillRating is the oracle's triple for one player.
type SkillRating struct {
	Rating          float64
	LoadoutModifier float64
	Uncertainty     float64
}

// Effective is the rating the matchmaker actually compares: base rating
// adjusted by the loadout modifier.
func (s SkillRating) Effective() float64 {
	return s.Rating + s.LoadoutModifier
}

// QueuedPlayer is one player waiting in line. Its encoded form doubles
// as the sorted-set member in the queue keys, so two equal players must
// always encode to the same bytes.
type QueuedPlayer struct {
	PlayerID   uuid.UUID
	Skill      SkillRating
	Region     string
	Ping       int32
	Difficulty int32
	JoinMode   JoinMode
	PartyMode  int32
	PartyIDs   []string
	JoinTime   int64
}

// AgeMinutes is how many whole minutes the player has been queued as of
// now (seconds since the game epoch).
func (p QueuedPlayer) AgeMinutes(now int64) int64 {
	return (now - p.JoinTime) / 60
}
