package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jw "github.com/golang-jwt/jwt/v5"

	"github.com/SnooSpace/discover-service/pkg/models"
)

const viewerKey = "viewer"

// ViewerAuth validates the HS256 bearer token issued by the identity
// service and resolves the viewer from its claims: "sub" carries the
// viewer id, "typ" the account type (defaults to member; member
// tokens predate the typ claim).
func ViewerAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" || raw == c.GetHeader("Authorization") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		t, err := jw.Parse(raw, func(t *jw.Token) (any, error) {
			return secret, nil
		}, jw.WithValidMethods([]string{"HS256"}))
		if err != nil || !t.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		mc, ok := t.Claims.(jw.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		sub, _ := mc["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}
		typ, _ := mc["typ"].(string)
		if typ == "" {
			typ = string(models.AuthorMember)
		}

		c.Set(viewerKey, models.Viewer{ID: sub, Type: models.AuthorType(typ)})
		c.Next()
	}
}

func viewerFrom(c *gin.Context) models.Viewer {
	v, _ := c.Get(viewerKey)
	viewer, _ := v.(models.Viewer)
	return viewer
}
