package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/talentops/cvhub/internal/cache"
	"github.com/talentops/cvhub/internal/config"
	"github.com/talentops/cvhub/internal/http/handlers"
	"github.com/talentops/cvhub/internal/http/middlewares"
	"github.com/talentops/cvhub/internal/observability"
	"github.com/talentops/cvhub/internal/repo/postgres"
)

func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	cfg config.Config,
	verifier middlewares.TokenVerifier,
	issuer handlers.TokenIssuer,
	listCache cache.Store,
	metrics *observability.Prom,
	promReg *prometheus.Registry,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(otelgin.Middleware("cvhub"))
	if metrics != nil {
		r.Use(metrics.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	// CORS runs before auth so OPTIONS preflights short-circuit to 200
	r.Use(middlewares.CORSMiddleware())
	r.Use(middlewares.MaxBodyBytes(1 << 20))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(ctx *gin.Context) {
		handlers.RespondMethodNotAllowed(ctx)
	})
	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondError(ctx, http.StatusNotFound, "Not found", nil)
	})

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if promReg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool)
	recordsRepo := postgres.NewCvRecordsRepo(pool)

	// handlers
	authHandler := handlers.NewAuthHandlerWithMetrics(usersRepo, issuer, metrics)
	usersHandler := handlers.NewUsersHandlerWithMetrics(usersRepo, metrics)
	recordsHandler := handlers.NewCvRecordsHandlerWithCache(recordsRepo, listCache, metrics)

	guard := middlewares.NewAuthMiddlewareWithMetrics(verifier, metrics)

	r.POST("/login", middlewares.RequireJSON(), authHandler.Login)
	r.GET("/user", guard.RequireAuth(), usersHandler.CurrentUser)
	r.GET("/cv-records", guard.RequireAuth(), recordsHandler.ListRecords)

	return r
}
