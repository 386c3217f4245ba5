package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"papertrading/src/analytics"
	"papertrading/src/handler"
	"papertrading/src/repository"
	"papertrading/src/stream"
)

// sqlPinger adapts the gorm handle to the health check.
type sqlPinger struct {
	db *gorm.DB
}

func (p sqlPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// NewRouter wires every repository on db behind the /api routes.
func NewRouter(db *gorm.DB, hub *stream.Hub, config *Config) http.Handler {
	sessions := repository.NewSessionRepository(db)
	configs := repository.NewConfigRepository(db)
	trades := repository.NewTradeRepository(db)
	logs := repository.NewLogRepository(db)
	portfolio := repository.NewPortfolioRepository(db)
	fees := repository.NewExchangeFeeRepository(db)

	reporter := analytics.NewReporter(db)
	exporter := analytics.NewExporter(sessions, configs, trades, portfolio, logs)

	r := chi.NewRouter()
	// === Global Middleware ===
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthHandler(sqlPinger{db: db}))

		r.Get("/sessions", handler.ListSessionsHandler(sessions))
		r.Post("/sessions", handler.CreateSessionHandler(sessions))

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/config", handler.GetConfigHandler(configs))
			r.Post("/config", handler.SaveConfigHandler(configs, hub))

			r.Get("/portfolio", handler.GetPortfolioHandler(portfolio))
			r.Post("/portfolio", handler.SavePortfolioHandler(portfolio, hub))
			r.Get("/portfolio/history", handler.PortfolioHistoryHandler(portfolio))

			r.Get("/trades", handler.ListTradesHandler(trades))
			r.Post("/trades", handler.SaveTradeHandler(trades, hub))

			r.Get("/logs", handler.ListLogsHandler(logs))
			r.Post("/logs", handler.SaveLogHandler(logs, hub))

			r.Get("/analytics", handler.AnalyticsHandler(reporter))
			r.Get("/export", handler.ExportHandler(exporter))
			r.Get("/stream", handler.StreamHandler(hub))
		})

		r.Post("/exchange-fees", handler.CacheFeesHandler(fees))
		r.Get("/exchange-fees/{exchange}/{asset}", handler.GetFeesHandler(fees))
	})

	return r
}

// StartServer serves the API until SIGINT or SIGTERM, then shuts down gracefully.
func StartServer(db *gorm.DB, config *Config) {
	hub := stream.NewHub(config.StreamBuffer)

	// Graceful server
	addr := ":" + config.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(db, hub, config),
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	// Websocket connections are hijacked and not tracked by Shutdown.
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}
}
