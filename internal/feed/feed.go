// Package feed holds the discover feed composition core: scoring,
// merge ordering, interleaving and the response envelope. Everything
// here is pure: the package never touches the store or the network.
package feed

import "time"

// ItemType tags the two content streams merged into the feed.
type ItemType string

const (
	TypePost  ItemType = "post"
	TypeEvent ItemType = "event"
)

// Grid spans are layout hints for the client's masonry grid. They
// never influence scoring or ordering.
const (
	postGridSpan  = 1
	eventGridSpan = 2
)

// Scored is the common face of both item variants, enough for the
// merger to order them without caring which stream they came from.
type Scored interface {
	Score() float64
	// SortKey is the recency tie-breaker: created_at for posts,
	// start_datetime for events.
	SortKey() time.Time
}

// Item is the ephemeral tagged union the merger works on. Exactly one
// of Post/Event is set, matching Type. Items live for one request.
type Item struct {
	Type  ItemType
	Post  *ScoredPost
	Event *ScoredEvent
}

func (i Item) Score() float64 {
	if i.Type == TypePost {
		return i.Post.ItemScore
	}
	return i.Event.ItemScore
}

func (i Item) SortKey() time.Time {
	if i.Type == TypePost {
		return i.Post.CreatedAt
	}
	return i.Event.StartDatetime
}
