package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentops/cvhub/internal/config"
	"github.com/talentops/cvhub/internal/domain/user"
	"github.com/talentops/cvhub/internal/http/middlewares"
	"github.com/talentops/cvhub/internal/observability"
	"github.com/talentops/cvhub/internal/repo/postgres"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type UsersHandler struct {
	users   UserReader
	metrics *observability.Prom
}

func NewUsersHandler(users UserReader) *UsersHandler {
	return &UsersHandler{users: users}
}

func NewUsersHandlerWithMetrics(users UserReader, metrics *observability.Prom) *UsersHandler {
	return &UsersHandler{users: users, metrics: metrics}
}

// CurrentUser hydrates the profile behind a verified token. Session tokens
// outlive profile deletion, so an id that no longer resolves comes back as
// 401, not 404: the caller's session is effectively dead.
func (h *UsersHandler) CurrentUser(ctx *gin.Context) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok || id == "" {
		RespondUnauthorized(ctx, "Authentication required")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	var u user.User

	err := observeDB(h.metrics, "users.get_by_id", func() error {
		var err error
		u, err = h.users.GetByID(cctx, id)
		return err
	})

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondUnauthorized(ctx, "User not found")
			return
		}

		RespondInternal(ctx, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, u)
}
