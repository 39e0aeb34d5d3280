package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SnooSpace/discover-service/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, h *Handler, jwtSecret []byte) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1", ViewerAuth(jwtSecret))
	{
		v1.GET("/discover/feed", h.Feed)
	}
}

// Feed: GET /v1/discover/feed?limit=10&offset=0&type=all
// Returns one composed discover page plus the has_more signal.
func (h *Handler) Feed(c *gin.Context) {
	lim := parseLimit(c.DefaultQuery("limit", "10"))
	off := parseOffset(c.DefaultQuery("offset", "0"))
	ct, err := service.ParseContentType(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := viewerFrom(c)
	items, hasMore, err := h.svc.FetchFeed(c.Request.Context(), viewer, lim, off, ct)
	if err != nil {
		if errors.Is(err, service.ErrInvalidViewer) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid viewer identity"})
			return
		}
		// store detail goes to the log, never to the client
		log.Printf("feed request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meta": gin.H{
			"count":  len(items),
			"limit":  lim,
			"offset": off,
			"type":   ct,
		},
		"items":    items,
		"has_more": hasMore,
	})
}

// parseLimit ensures a sane integer limit, with bounds
func parseLimit(s string) int {
	l, err := strconv.Atoi(s)
	if err != nil || l <= 0 {
		return 10
	}
	if l > 50 {
		return 50
	}
	return l
}

func parseOffset(s string) int {
	o, err := strconv.Atoi(s)
	if err != nil || o < 0 {
		return 0
	}
	return o
}
