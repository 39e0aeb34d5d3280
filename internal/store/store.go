package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/SnooSpace/discover-service/pkg/models"
)

type PgStore struct {
	db *sqlx.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS members(
  id UUID PRIMARY KEY,
  name TEXT,
  username TEXT,
  avatar_url TEXT
);

CREATE TABLE IF NOT EXISTS communities(
  id UUID PRIMARY KEY,
  name TEXT,
  username TEXT,
  avatar_url TEXT
);

CREATE TABLE IF NOT EXISTS posts(
  id UUID PRIMARY KEY,
  author_id UUID NOT NULL,
  author_type TEXT NOT NULL CHECK (author_type IN ('member','community')),
  caption TEXT,
  image_urls JSONB,
  like_count INTEGER DEFAULT 0,
  comment_count INTEGER DEFAULT 0,
  created_at TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events(
  id UUID PRIMARY KEY,
  community_id UUID NOT NULL,
  title TEXT,
  description TEXT,
  location TEXT,
  banner_url TEXT,
  start_datetime TIMESTAMPTZ,
  is_published BOOLEAN DEFAULT false
);

CREATE TABLE IF NOT EXISTS event_registrations(
  id UUID PRIMARY KEY,
  event_id UUID NOT NULL,
  member_id UUID NOT NULL,
  registration_status TEXT DEFAULT 'registered'
);

CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
CREATE INDEX IF NOT EXISTS idx_posts_author ON posts(author_id, author_type);
CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_datetime);
CREATE INDEX IF NOT EXISTS idx_registrations_event ON event_registrations(event_id);
`
	_, err := db.Exec(initSQL)
	return err
}

// FetchPosts returns one score-ranked page of posts for the viewer.
//
// The ORDER BY mirrors feed.ScorePost exactly, with the same now
// passed in, so the page the database picks is the page the scorer
// would pick. Self-authored posts are excluded only when BOTH id and
// type match the viewer. Author identity is the (id, type) pair, and
// a member may share an id with a community.
//
// Author display metadata comes from a per-type LEFT JOIN; a post
// whose author row is missing comes back with NULL display fields,
// not an error.
func (p *PgStore) FetchPosts(ctx context.Context, viewer models.Viewer, limit, offset int, now time.Time) ([]models.Post, error) {
	rows := []models.Post{}
	query := `
SELECT p.id, p.author_id, p.author_type, COALESCE(p.caption, '') AS caption,
       COALESCE(p.image_urls, '[]'::jsonb) AS image_urls,
       COALESCE(p.like_count, 0) AS like_count,
       COALESCE(p.comment_count, 0) AS comment_count,
       p.created_at,
       CASE WHEN p.author_type = 'member' THEN m.name ELSE c.name END AS author_name,
       CASE WHEN p.author_type = 'member' THEN m.username ELSE c.username END AS author_username,
       CASE WHEN p.author_type = 'member' THEN m.avatar_url ELSE c.avatar_url END AS author_avatar
FROM posts p
LEFT JOIN members m ON p.author_type = 'member' AND m.id = p.author_id
LEFT JOIN communities c ON p.author_type = 'community' AND c.id = p.author_id
WHERE (p.author_id != $1 OR p.author_type != $2)
ORDER BY
  COALESCE(p.like_count, 0) + 2 * COALESCE(p.comment_count, 0) +
  GREATEST(0, 10 - GREATEST(0, EXTRACT(EPOCH FROM ($3::timestamptz - p.created_at)) / 86400.0)) DESC,
  p.created_at DESC
LIMIT $4 OFFSET $5
`
	err := p.db.SelectContext(ctx, &rows, query, viewer.ID, viewer.Type, now, limit, offset)
	return rows, err
}

// FetchEvents returns one page of published, not-yet-started events.
//
// Selection order is start_datetime ascending: the page contains the
// soonest upcoming events, not the highest scored ones. Score decides
// placement later, in the merge. The two orderings are deliberately
// different.
func (p *PgStore) FetchEvents(ctx context.Context, limit, offset int, now time.Time) ([]models.Event, error) {
	rows := []models.Event{}
	query := `
SELECT e.id, e.community_id, COALESCE(e.title, '') AS title, e.description, e.location,
       e.banner_url, e.start_datetime,
       (SELECT COUNT(*) FROM event_registrations r
        WHERE r.event_id = e.id AND r.registration_status = 'registered') AS registration_count,
       c.name AS community_name,
       c.username AS community_username,
       c.avatar_url AS community_avatar
FROM events e
LEFT JOIN communities c ON c.id = e.community_id
WHERE e.is_published = true AND e.start_datetime > $1
ORDER BY e.start_datetime ASC
LIMIT $2 OFFSET $3
`
	err := p.db.SelectContext(ctx, &rows, query, now, limit, offset)
	return rows, err
}
