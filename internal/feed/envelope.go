package feed

import (
	"database/sql"
	"time"
)

// Envelope is the transport shape for one feed item: a small common
// core plus type-specific fields, nil for the other type.
type Envelope struct {
	ID           string   `json:"id"`
	ItemType     ItemType `json:"item_type"`
	ThumbnailURL *string  `json:"thumbnail_url"`
	Score        float64  `json:"score"`
	GridSpan     int      `json:"grid_span"`

	// post fields
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	Caption        *string    `json:"caption,omitempty"`
	LikeCount      *int       `json:"like_count,omitempty"`
	CommentCount   *int       `json:"comment_count,omitempty"`
	AuthorID       *string    `json:"author_id,omitempty"`
	AuthorType     *string    `json:"author_type,omitempty"`
	AuthorName     *string    `json:"author_name,omitempty"`
	AuthorUsername *string    `json:"author_username,omitempty"`
	AuthorAvatar   *string    `json:"author_avatar,omitempty"`

	// event fields
	EventDate         *time.Time `json:"event_date,omitempty"`
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Location          *string    `json:"location,omitempty"`
	CommunityID       *string    `json:"community_id,omitempty"`
	CommunityName     *string    `json:"community_name,omitempty"`
	CommunityUsername *string    `json:"community_username,omitempty"`
	CommunityAvatar   *string    `json:"community_avatar,omitempty"`
	AttendeeCount     *int       `json:"attendee_count,omitempty"`
}

// Normalize maps merged items to their transport envelopes, in order.
func Normalize(items []Item) []Envelope {
	out := make([]Envelope, 0, len(items))
	for _, it := range items {
		if it.Type == TypePost {
			out = append(out, postEnvelope(it.Post))
		} else {
			out = append(out, eventEnvelope(it.Event))
		}
	}
	return out
}

func postEnvelope(p *ScoredPost) Envelope {
	createdAt := p.CreatedAt
	authorType := string(p.AuthorType)
	return Envelope{
		ID:           p.ID,
		ItemType:     TypePost,
		ThumbnailURL: nonEmpty(p.ImageURLs.First()),
		Score:        p.ItemScore,
		GridSpan:     postGridSpan,

		CreatedAt:      &createdAt,
		Caption:        strPtr(p.Caption),
		LikeCount:      intPtr(p.LikeCount),
		CommentCount:   intPtr(p.CommentCount),
		AuthorID:       strPtr(p.AuthorID),
		AuthorType:     &authorType,
		AuthorName:     nullable(p.AuthorName),
		AuthorUsername: nullable(p.AuthorUsername),
		AuthorAvatar:   nullable(p.AuthorAvatar),
	}
}

func eventEnvelope(e *ScoredEvent) Envelope {
	eventDate := e.StartDatetime
	return Envelope{
		ID:           e.ID,
		ItemType:     TypeEvent,
		ThumbnailURL: nullable(e.BannerURL),
		Score:        e.ItemScore,
		GridSpan:     eventGridSpan,

		EventDate:         &eventDate,
		Title:             strPtr(e.Title),
		Description:       nullable(e.Description),
		Location:          nullable(e.Location),
		CommunityID:       strPtr(e.CommunityID),
		CommunityName:     nullable(e.CommunityName),
		CommunityUsername: nullable(e.CommunityUsername),
		CommunityAvatar:   nullable(e.CommunityAvatar),
		AttendeeCount:     intPtr(e.RegistrationCount),
	}
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// nonEmpty returns nil for "", so missing thumbnails serialize as null.
func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
