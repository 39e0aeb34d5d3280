package models

import (
	"database/sql"
	"time"

	dbtypes "github.com/SnooSpace/discover-service/internal/db"
)

// AuthorType discriminates who authored a post. Posts can come from
// individual members or from community accounts.
type AuthorType string

const (
	AuthorMember    AuthorType = "member"
	AuthorCommunity AuthorType = "community"
)

// Post is a feed-eligible post row joined with its author's display
// metadata. Display fields are nullable: a post whose author record
// is gone still renders, just without the author chrome.
type Post struct {
	ID           string             `db:"id" json:"id"`
	AuthorID     string             `db:"author_id" json:"author_id"`
	AuthorType   AuthorType         `db:"author_type" json:"author_type"`
	Caption      string             `db:"caption" json:"caption"`
	ImageURLs    dbtypes.ImageURLs  `db:"image_urls" json:"image_urls"`
	LikeCount    int                `db:"like_count" json:"like_count"`
	CommentCount int                `db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`

	AuthorName     sql.NullString `db:"author_name" json:"-"`
	AuthorUsername sql.NullString `db:"author_username" json:"-"`
	AuthorAvatar   sql.NullString `db:"author_avatar" json:"-"`
}

// Event is a published, not-yet-started community event row joined
// with its hosting community and a live registration count.
type Event struct {
	ID            string         `db:"id" json:"id"`
	CommunityID   string         `db:"community_id" json:"community_id"`
	Title         string         `db:"title" json:"title"`
	Description   sql.NullString `db:"description" json:"-"`
	Location      sql.NullString `db:"location" json:"-"`
	BannerURL     sql.NullString `db:"banner_url" json:"-"`
	StartDatetime time.Time      `db:"start_datetime" json:"start_datetime"`

	RegistrationCount int `db:"registration_count" json:"registration_count"`

	CommunityName     sql.NullString `db:"community_name" json:"-"`
	CommunityUsername sql.NullString `db:"community_username" json:"-"`
	CommunityAvatar   sql.NullString `db:"community_avatar" json:"-"`
}

// Viewer identifies who is requesting the feed: an (id, type) pair.
// The pair is compared as a unit: a member and a community can share
// an id without being the same identity.
type Viewer struct {
	ID   string
	Type AuthorType
}

// Matches reports whether the given author identity is the viewer.
func (v Viewer) Matches(authorID string, authorType AuthorType) bool {
	return v.ID == authorID && v.Type == authorType
}
