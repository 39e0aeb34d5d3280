package feed

import (
	"time"

	"github.com/SnooSpace/discover-service/pkg/models"
)

// Scoring constants. The event base keeps events, a thin content
// type, visible against the much higher post volume: every event
// outranks any post short of viral engagement.
const (
	commentWeight      = 2.0
	recencyWindowDays  = 10.0
	eventBaseScore     = 50.0
	registrationWeight = 3.0
)

// ScoredPost is a post row with its computed rank score attached.
type ScoredPost struct {
	models.Post
	ItemScore float64
}

func (p *ScoredPost) Score() float64     { return p.ItemScore }
func (p *ScoredPost) SortKey() time.Time { return p.CreatedAt }

// ScoredEvent is an event row with its computed rank score attached.
type ScoredEvent struct {
	models.Event
	ItemScore float64
}

func (e *ScoredEvent) Score() float64     { return e.ItemScore }
func (e *ScoredEvent) SortKey() time.Time { return e.StartDatetime }

// ScorePost ranks a post by engagement plus a recency bonus:
//
//	like_count + 2*comment_count + max(0, 10 - days_since(created_at))
//
// Day counts are real-valued, so the bonus decays continuously and
// hits zero at ten days old. A created_at in the future (clock skew)
// counts as today: the bonus is clamped at the full window, never
// above it.
func ScorePost(p models.Post, now time.Time) float64 {
	days := now.Sub(p.CreatedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	bonus := recencyWindowDays - days
	if bonus < 0 {
		bonus = 0
	}
	return float64(p.LikeCount) + commentWeight*float64(p.CommentCount) + bonus
}

// ScoreEvent ranks an event by registration volume over a fixed base:
//
//	50 + 3*registration_count
func ScoreEvent(e models.Event) float64 {
	return eventBaseScore + registrationWeight*float64(e.RegistrationCount)
}
