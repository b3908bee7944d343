package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/talentops/cvhub/internal/auth"
	"github.com/talentops/cvhub/internal/observability"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt     TokenVerifier
	metrics *observability.Prom
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func NewAuthMiddlewareWithMetrics(jwt TokenVerifier, metrics *observability.Prom) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, metrics: metrics}
}

// RequireAuth is the session guard. A missing Authorization header, a header
// without the literal "Bearer " prefix and a failed verification all collapse
// to the same 401 so the response never reveals which check failed.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.reject(c)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			m.reject(c)
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			m.reject(c)
			return
		}

		m.count("ok")

		// Stash useful bits of identity on the context
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context) {
	m.count("rejected")

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Authentication required",
	})
}

func (m *AuthMiddleware) count(result string) {
	if m.metrics != nil {
		m.metrics.AuthResults.WithLabelValues("guard", result).Inc()
	}
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
