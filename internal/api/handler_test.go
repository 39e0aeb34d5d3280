package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jw "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SnooSpace/discover-service/internal/service"
	"github.com/SnooSpace/discover-service/pkg/models"
)

var testSecret = []byte("test-secret")

// any well-formed uuid: viewer ids are uuid columns downstream
const testViewerID = "9d3c1b7e-5a42-4f0d-8e6b-2a1f0c9d8b7a"

type stubStore struct {
	posts  []models.Post
	events []models.Event
	err    error
}

func (s *stubStore) FetchPosts(_ context.Context, _ models.Viewer, limit, offset int, _ time.Time) ([]models.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.posts, nil
}

func (s *stubStore) FetchEvents(_ context.Context, limit, offset int, _ time.Time) ([]models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func newTestRouter(repo service.FeedStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, NewHandler(service.NewService(repo, nil)), testSecret)
	return r
}

func mintToken(t *testing.T, claims jw.MapClaims) string {
	t.Helper()
	tok, err := jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return tok
}

func doFeed(r *gin.Engine, token, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/discover/feed"+query, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFeedRequiresToken(t *testing.T) {
	r := newTestRouter(&stubStore{})

	w := doFeed(r, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedRejectsBadToken(t *testing.T) {
	r := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodGet, "/v1/discover/feed", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedRejectsTokenWithoutSubject(t *testing.T) {
	r := newTestRouter(&stubStore{})

	w := doFeed(r, mintToken(t, jw.MapClaims{"typ": "member"}), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFeedRejectsNonUUIDSubject(t *testing.T) {
	r := newTestRouter(&stubStore{})

	w := doFeed(r, mintToken(t, jw.MapClaims{"sub": "not-a-uuid"}), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid viewer identity")
}

func TestFeedRejectsUnknownType(t *testing.T) {
	r := newTestRouter(&stubStore{})

	w := doFeed(r, mintToken(t, jw.MapClaims{"sub": testViewerID}), "?type=videos")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedHidesStoreDetail(t *testing.T) {
	r := newTestRouter(&stubStore{err: errors.New("pq: password authentication failed")})

	w := doFeed(r, mintToken(t, jw.MapClaims{"sub": testViewerID}), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "failed to load feed", body["error"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestFeedReturnsComposedPage(t *testing.T) {
	now := time.Now()
	repo := &stubStore{
		posts: []models.Post{
			{ID: "p1", AuthorID: "a1", AuthorType: models.AuthorMember, LikeCount: 5, CreatedAt: now},
			{ID: "p2", AuthorID: "a2", AuthorType: models.AuthorMember, LikeCount: 2, CreatedAt: now},
		},
		events: []models.Event{
			{ID: "e1", CommunityID: "c1", Title: "meetup", StartDatetime: now.Add(24 * time.Hour), RegistrationCount: 4},
		},
	}
	r := newTestRouter(repo)

	w := doFeed(r, mintToken(t, jw.MapClaims{"sub": testViewerID, "typ": "member"}), "?limit=10&offset=0&type=all")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Meta struct {
			Count  int    `json:"count"`
			Limit  int    `json:"limit"`
			Offset int    `json:"offset"`
			Type   string `json:"type"`
		} `json:"meta"`
		Items []struct {
			ID       string  `json:"id"`
			ItemType string  `json:"item_type"`
			Score    float64 `json:"score"`
			GridSpan int     `json:"grid_span"`
		} `json:"items"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 3, body.Meta.Count)
	assert.Equal(t, 10, body.Meta.Limit)
	assert.Equal(t, "all", body.Meta.Type)
	assert.False(t, body.HasMore, "two posts against limit 10")

	require.Len(t, body.Items, 3)
	// two posts, no slot opens, the event trails
	assert.Equal(t, "p1", body.Items[0].ID)
	assert.Equal(t, "p2", body.Items[1].ID)
	assert.Equal(t, "e1", body.Items[2].ID)
	assert.Equal(t, "event", body.Items[2].ItemType)
	assert.Equal(t, 2, body.Items[2].GridSpan)
	assert.Equal(t, float64(62), body.Items[2].Score)
}

func TestFeedClampsLimitAndOffset(t *testing.T) {
	r := newTestRouter(&stubStore{})

	w := doFeed(r, mintToken(t, jw.MapClaims{"sub": testViewerID}), "?limit=9999&offset=-3")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Meta struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 50, body.Meta.Limit)
	assert.Equal(t, 0, body.Meta.Offset)
}
