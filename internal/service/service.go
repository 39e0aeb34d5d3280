package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/SnooSpace/discover-service/internal/feed"
	"github.com/SnooSpace/discover-service/pkg/models"
)

// FeedStore is the read-only slice of the relational store the engine
// needs: one ranked page per content source.
type FeedStore interface {
	FetchPosts(ctx context.Context, viewer models.Viewer, limit, offset int, now time.Time) ([]models.Post, error)
	FetchEvents(ctx context.Context, limit, offset int, now time.Time) ([]models.Event, error)
}

// ContentType restricts which sources a feed request draws from.
type ContentType string

const (
	ContentAll    ContentType = "all"
	ContentPosts  ContentType = "posts"
	ContentEvents ContentType = "events"
)

// ParseContentType validates the type selector from the request.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentAll, ContentPosts, ContentEvents:
		return ContentType(s), nil
	case "":
		return ContentAll, nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// Content-mix policy for type=all: roughly one event per three posts,
// fixed by configuration rather than inferred from live counts so the
// mix is reproducible. The floor keeps small pages from starving the
// event stream entirely.
const (
	eventMixRatio = 3
	minEventLimit = 5
)

type window struct {
	postLimit, postOffset   int
	eventLimit, eventOffset int
}

// pageWindow translates the caller's single (limit, offset) into
// independent per-source windows. Posts always get the caller window
// verbatim; events page at 1/3 speed with a floor of 5.
func pageWindow(limit, offset int, ct ContentType) window {
	switch ct {
	case ContentPosts:
		return window{postLimit: limit, postOffset: offset}
	case ContentEvents:
		return window{eventLimit: limit, eventOffset: offset}
	}
	eventLimit := limit / eventMixRatio
	if eventLimit < minEventLimit {
		eventLimit = minEventLimit
	}
	return window{
		postLimit:   limit,
		postOffset:  offset,
		eventLimit:  eventLimit,
		eventOffset: offset / eventMixRatio,
	}
}

type Service struct {
	repo FeedStore
	rdb  *redis.Client
	now  func() time.Time
}

func NewService(repo FeedStore, rdb *redis.Client) *Service {
	return &Service{repo: repo, rdb: rdb, now: time.Now}
}

// FetchFeed composes one discover feed page for the viewer.
//
// Both source queries run concurrently and the join is fail-fast: if
// either source errors the whole request errors. hasMore is keyed to
// the post stream alone. It reports whether the post page came back
// full, regardless of how many events remain. That asymmetry is the
// documented contract, not an accident: posts are the feed's spine
// and events only decorate it.
func (s *Service) FetchFeed(ctx context.Context, viewer models.Viewer, limit, offset int, ct ContentType) ([]feed.Envelope, bool, error) {
	if viewer.ID == "" || (viewer.Type != models.AuthorMember && viewer.Type != models.AuthorCommunity) {
		return nil, false, fmt.Errorf("%w: id=%q type=%q", ErrInvalidViewer, viewer.ID, viewer.Type)
	}
	// author_id is a uuid column; a malformed id would fail the cast
	// inside the query and masquerade as a retryable store error
	if _, err := uuid.Parse(viewer.ID); err != nil {
		return nil, false, fmt.Errorf("%w: id=%q is not a uuid", ErrInvalidViewer, viewer.ID)
	}

	now := s.now()
	win := pageWindow(limit, offset, ct)

	var (
		posts  []models.Post
		events []models.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	if win.postLimit > 0 {
		g.Go(func() error {
			rows, err := s.repo.FetchPosts(gctx, viewer, win.postLimit, win.postOffset, now)
			if err != nil {
				return &StoreError{Source: "posts", Err: err}
			}
			posts = rows
			return nil
		})
	}
	if win.eventLimit > 0 {
		g.Go(func() error {
			rows, err := s.repo.FetchEvents(gctx, win.eventLimit, win.eventOffset, now)
			if err != nil {
				return &StoreError{Source: "events", Err: err}
			}
			events = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	// keyed to the raw post page, before any row is dropped below
	hasMore := limit > 0 && len(posts) == limit

	scoredPosts := make([]*feed.ScoredPost, 0, len(posts))
	for _, p := range posts {
		// the query excludes self-authored rows; enforce the (id, type)
		// pair identity here too so a misbehaving source cannot leak one
		if viewer.Matches(p.AuthorID, p.AuthorType) {
			continue
		}
		scoredPosts = append(scoredPosts, &feed.ScoredPost{Post: p, ItemScore: feed.ScorePost(p, now)})
	}
	scoredEvents := make([]*feed.ScoredEvent, 0, len(events))
	for _, e := range events {
		scoredEvents = append(scoredEvents, &feed.ScoredEvent{Event: e, ItemScore: feed.ScoreEvent(e)})
	}

	items := feed.Normalize(feed.Merge(scoredPosts, scoredEvents))

	s.trackImpressions(ctx, items)

	return items, hasMore, nil
}

// trackImpressions bumps a per-item counter in Redis for everything
// emitted on this page. Best-effort: a counter miss is a log line,
// never a failed feed.
func (s *Service) trackImpressions(ctx context.Context, items []feed.Envelope) {
	if s.rdb == nil || len(items) == 0 {
		return
	}
	pipe := s.rdb.Pipeline()
	for _, it := range items {
		pipe.Incr(ctx, "discover:impressions:"+it.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("warning: impression tracking failed: %v", err)
	}
}
