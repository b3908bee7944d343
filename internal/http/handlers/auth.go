package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentops/cvhub/internal/config"
	"github.com/talentops/cvhub/internal/domain/user"
	"github.com/talentops/cvhub/internal/observability"
	"github.com/talentops/cvhub/internal/repo/postgres"
)

type CredentialReader interface {
	GetByCredentials(ctx context.Context, username, password string) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID, username, email, role string) (string, error)
}

type AuthHandler struct {
	users   CredentialReader
	jwt     TokenIssuer
	metrics *observability.Prom
}

func NewAuthHandler(users CredentialReader, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

func NewAuthHandlerWithMetrics(users CredentialReader, jwt TokenIssuer, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt, metrics: metrics}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a session token. Missing fields 400
// before any store access; no matching row 401.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for the credential lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	var foundUser user.User

	err := observeDB(h.metrics, "users.get_by_credentials", func() error {
		var err error
		foundUser, err = h.users.GetByCredentials(cctx, req.Username, req.Password)
		return err
	})

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			h.count("rejected")
			RespondUnauthorized(ctx, "Invalid credentials")
			return
		}

		h.count("rejected")
		RespondInternal(ctx, err.Error())
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Username, foundUser.Email, foundUser.Role)

	if err != nil {
		h.count("rejected")
		RespondInternal(ctx, "Could not issue session token")
		return
	}

	h.count("ok")

	ctx.JSON(http.StatusOK, gin.H{
		"id":         foundUser.ID,
		"username":   foundUser.Username,
		"email":      foundUser.Email,
		"role":       strings.ToLower(foundUser.Role),
		"firstName":  foundUser.FirstName,
		"lastName":   foundUser.LastName,
		"department": foundUser.Department,
		"token":      token,
	})
}

func (h *AuthHandler) count(result string) {
	if h.metrics != nil {
		h.metrics.AuthResults.WithLabelValues("login", result).Inc()
	}
}
