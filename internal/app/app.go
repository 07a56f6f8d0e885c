package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appconfig "transitboard/internal/config"
	httpserver "transitboard/internal/http"
	"transitboard/internal/http/handlers"
	"transitboard/internal/http/middleware"
	"transitboard/internal/metrics"
	"transitboard/internal/password"
	"transitboard/internal/redisstore"
	"transitboard/internal/repository"
	"transitboard/internal/service"
	"transitboard/libs/db"
	libredis "transitboard/libs/redis"
	"transitboard/web"
)

// App wires the service dependency graph.
type App struct {
	server    *httpserver.Server
	collector *metrics.Collector
	cfg       *appconfig.Config
	db        *sql.DB
	redis     *goredis.Client
	logger    *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgresDB(ctx, cfg.Database.DSN, db.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	templates, err := web.Templates()
	if err != nil {
		sqlDB.Close()
		redisClient.Close()
		return nil, err
	}

	collector := metrics.NewCollector()

	userRepo := repository.NewUserRepository(sqlDB)
	ridershipRepo := repository.NewRidershipRepository(sqlDB)

	sessionStore := redisstore.NewStore(redisClient, cfg.SessionTTL())
	tokenSvc := service.NewTokenService(cfg.Session.Secret, cfg.SessionTTL())
	sessionSvc := service.NewSessionService(tokenSvc, sessionStore, logger)

	hasher := password.NewBcryptHasher(0)
	authSvc := service.NewAuthService(userRepo, hasher, sessionSvc, logger)
	ridershipSvc := service.NewRidershipService(ridershipRepo, logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:      handlers.NewAuthHandlers(authSvc, sessionSvc, templates, collector, cfg.SessionTTL(), logger),
		PageHandlers:      handlers.NewPageHandlers(sessionSvc, templates, logger),
		RidershipHandlers: handlers.NewRidershipHandlers(ridershipSvc, collector, logger),
		HealthHandler:     handlers.NewHealthHandler(),
		Sessions:          sessionSvc,
	})

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.MetricsMiddleware(collector),
		middleware.CORSMiddleware(),
	)

	return &App{
		server:    server,
		collector: collector,
		cfg:       cfg,
		db:        sqlDB,
		redis:     redisClient,
		logger:    logger,
	}, nil
}

// Run serves HTTP traffic and the metrics listener until context
// cancellation.
func (a *App) Run(ctx context.Context) error {
	go func() {
		if err := a.collector.Serve(ctx, a.cfg.Metrics.Addr, a.logger); err != nil {
			a.logger.Warn("metrics listener stopped", zap.Error(err))
		}
	}()

	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
