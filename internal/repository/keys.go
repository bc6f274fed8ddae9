package repository

import (
	"fmt"

	"github.com/naomijub/MHTH/internal/domain"
)

const (
	// ClosedMatchesKey holds full matches waiting for the session
	// launcher, scored by drain order.
	ClosedMatchesKey = "matches:closed"
	// RegionsKey holds the encoded list of serviced regions.
	RegionsKey = "match:regions"
)

// PlayerQueueKey buckets waiting players by party mode and region.
func PlayerQueueKey(p domain.QueuedPlayer) string {
	return fmt.Sprintf("queue_player:%d:%s", p.PartyMode, p.Region)
}

// CreateMatchQueueKey holds the would-be hosts of one region.
func CreateMatchQueueKey(region string) string {
	return fmt.Sprintf("queue_create_match:%s", region)
}

// MatchDataKey stores the encoded open match.
func MatchDataKey(m domain.Match) string {
	return "match:" + m.ID.String()
}
