package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbtypes "github.com/SnooSpace/discover-service/internal/db"
	"github.com/SnooSpace/discover-service/pkg/models"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*PgStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPgStore(db), mock
}

var postColumns = []string{
	"id", "author_id", "author_type", "caption", "image_urls",
	"like_count", "comment_count", "created_at",
	"author_name", "author_username", "author_avatar",
}

var eventColumns = []string{
	"id", "community_id", "title", "description", "location",
	"banner_url", "start_datetime", "registration_count",
	"community_name", "community_username", "community_avatar",
}

func TestFetchPostsExcludesViewerPair(t *testing.T) {
	st, mock := newMockStore(t)
	viewer := models.Viewer{ID: "6f1e1d0a-2c3b-4f5d-9a8b-7c6d5e4f3a2b", Type: models.AuthorMember}

	// the exclusion must be the OR form: a row survives unless BOTH
	// id and type match the viewer
	mock.ExpectQuery(`WHERE \(p\.author_id != \$1 OR p\.author_type != \$2\)`).
		WithArgs(viewer.ID, viewer.Type, now, 10, 0).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow("p1", "a1", "member", "hello", []byte(`["a.jpg"]`), 3, 1, now, "Ada", "ada", "https://img/a.png"))

	got, err := st.FetchPosts(context.Background(), viewer, 10, 0, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, dbtypes.ImageURLs{"a.jpg"}, got[0].ImageURLs)
	assert.Equal(t, "Ada", got[0].AuthorName.String)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPostsOrdersByScoreThenRecency(t *testing.T) {
	st, mock := newMockStore(t)
	viewer := models.Viewer{ID: "6f1e1d0a-2c3b-4f5d-9a8b-7c6d5e4f3a2b", Type: models.AuthorCommunity}

	// score formula in the ORDER BY, with the same now bound as $3,
	// recency as the tie-break
	mock.ExpectQuery(`ORDER BY(?s).*GREATEST\(0, 10 - GREATEST\(0, EXTRACT\(EPOCH FROM \(\$3::timestamptz - p\.created_at\)\) / 86400\.0\)\) DESC,(?s).*p\.created_at DESC`).
		WithArgs(viewer.ID, viewer.Type, now, 5, 15).
		WillReturnRows(sqlmock.NewRows(postColumns))

	got, err := st.FetchPosts(context.Background(), viewer, 5, 15, now)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchEventsOnlyPublishedUpcoming(t *testing.T) {
	st, mock := newMockStore(t)
	start := now.Add(48 * time.Hour)

	// eligibility is pinned to the request now bound as $1: published
	// and not yet started
	mock.ExpectQuery(`WHERE e\.is_published = true AND e\.start_datetime > \$1`).
		WithArgs(now, 5, 0).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow("e1", "c1", "meetup", "talks and pizza", "Berlin", "https://img/b.png", start, 7, "Gophers", "gophers", "https://img/c.png"))

	got, err := st.FetchEvents(context.Background(), 5, 0, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, 7, got[0].RegistrationCount)
	assert.True(t, got[0].StartDatetime.Equal(start))
	assert.Equal(t, "Gophers", got[0].CommunityName.String)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchEventsSelectsSoonestFirst(t *testing.T) {
	st, mock := newMockStore(t)

	// selection order is start ascending, not score; the live
	// registration count is restricted to registered rows
	mock.ExpectQuery(`registration_status = 'registered'(?s).*ORDER BY e\.start_datetime ASC`).
		WithArgs(now, 7, 14).
		WillReturnRows(sqlmock.NewRows(eventColumns))

	got, err := st.FetchEvents(context.Background(), 7, 14, now)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}
