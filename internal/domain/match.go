package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxPlayers is the room capacity. A match at capacity is closed and
// handed to the session launcher.
const MaxPlayers = 4

// ErrJoinOnlyMode is returned when a join-only player is asked to host.
var ErrJoinOnlyMode = errors.New("player is join-only and cannot host a room")

// OversizedPartyError means host plus party would not fit in one room.
type OversizedPartyError struct {
	Count int
	Max   int
}

func (e OversizedPartyError) Error() string {
	return fmt.Sprintf("party of %d exceeds room capacity of %d", e.Count, e.Max)
}

// PingDeviation grades how latency-degraded an admission would be.
type PingDeviation int32

const (
	// Excellent is under 50 ms.
	Excellent PingDeviation = iota
	// Good is 50 to 100 ms.
	Good
	// Disadvantage is 100 to 150 ms.
	Disadvantage
	// Poor is 150 to 300 ms.
	Poor
	// Worst is above 300 ms.
	Worst
)

func (d PingDeviation) String() string {
	switch d {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Disadvantage:
		return "disadvantage"
	case Poor:
		return "poor"
	case Worst:
		return "worst"
	}
	return "unknown"
}

// Match is a formed room. Players is ordered: resolved party first, the
// host seated last.
type Match struct {
	ID      uuid.UUID
	HostID  uuid.UUID
	Region  string
	Players []QueuedPlayer
}

// HostMatch builds a room around player with its resolved party.
func HostMatch(player QueuedPlayer, party []QueuedPlayer) (Match, error) {
	if player.JoinMode == JoinRoom {
		return Match{}, ErrJoinOnlyMode
	}
	if len(party)+1 > MaxPlayers {
		return Match{}, OversizedPartyError{Count: len(party) + 1, Max: MaxPlayers}
	}

	players := make([]QueuedPlayer, 0, len(party)+1)
	players = append(players, party...)
	players = append(players, player)

	return Match{
		ID:      uuid.New(),
		HostID:  player.PlayerID,
		Region:  player.Region,
		Players: players,
	}, nil
}

// Full reports whether the match reached capacity.
func (m *Match) Full() bool {
	return len(m.Players) >= MaxPlayers
}

// IsPlayerFit decides whether candidate may be seated in this match and
// grades the latency cost of doing so.
func (m *Match) IsPlayerFit(candidate QueuedPlayer) (bool, PingDeviation) {
	return m.IsPlayerFitAt(candidate, Now())
}

// IsPlayerFitAt is IsPlayerFit evaluated at an explicit time, expressed
// as seconds since the game epoch.
//
// Good latency is admitted unconditionally. Borderline latency needs
// the room average close by, enough queue age, or compensating skill.
// Very high latency needs substantial queue age.
func (m *Match) IsPlayerFitAt(candidate QueuedPlayer, now int64) (bool, PingDeviation) {
	if candidate.JoinMode == CreateRoom || len(m.Players) >= MaxPlayers || m.Region != candidate.Region {
		return false, Worst
	}

	var pingSum, skillSum float64
	for _, p := range m.Players {
		pingSum += float64(p.Ping)
		skillSum += p.Skill.Effective()
	}
	avgPing := pingSum / float64(len(m.Players))
	avgSkill := skillSum / float64(len(m.Players))

	ping := float64(candidate.Ping)
	percentSkill := (candidate.Skill.Effective()/avgSkill - 1) * 50
	age := candidate.AgeMinutes(now)

	switch {
	case ping < 50:
		return true, Excellent
	case ping < 100:
		return true, Good
	case ping < 150 && avgPing+25 > ping:
		return true, Disadvantage
	case (ping < 150 && age > 1) || ping+percentSkill > 150:
		return true, Poor
	case ping < 150:
		// inside-150 without age or skill compensation stays out
		return false, Disadvantage
	case ping < 300 && age > 3:
		return true, Poor
	}
	return false, Worst
}
