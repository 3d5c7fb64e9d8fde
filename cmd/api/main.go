package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/config"
	"github.com/leadgen-io/leadgen-api/internal/infra/audit"
	"github.com/leadgen-io/leadgen-api/internal/infra/cache"
	"github.com/leadgen-io/leadgen-api/internal/infra/database"
	"github.com/leadgen-io/leadgen-api/internal/infra/http/handlers"
	"github.com/leadgen-io/leadgen-api/internal/infra/http/middleware"
	"github.com/leadgen-io/leadgen-api/internal/infra/mail"
	"github.com/leadgen-io/leadgen-api/internal/logger"
	"github.com/leadgen-io/leadgen-api/internal/usecase"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	// Audit sinks. The Postgres activity log is always on; the AMQP stream
	// joins it when a broker is configured. Both are best-effort.
	recorders := audit.MultiRecorder{audit.NewPostgresRecorder(db, zlog)}

	var amqpConn *amqp.Connection
	if cfg.AMQPURL != "" {
		amqpConn, err = amqp.Dial(cfg.AMQPURL)
		if err != nil {
			zlog.Warn("rabbitmq unavailable, audit stream disabled", zap.Error(err))
		} else {
			defer amqpConn.Close()
			publisher, err := audit.NewAMQPRecorder(amqpConn, zlog)
			if err != nil {
				zlog.Warn("audit stream setup failed", zap.Error(err))
			} else {
				recorders = append(recorders, publisher)
			}
		}
	}

	var redisClient *redis.Client
	var statsCache usecase.StatsCache
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			zlog.Warn("redis unavailable, stats cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			statsCache = cache.NewStatsCache(redisClient, time.Minute)
		}
	}

	var notifier usecase.LeadNotifier
	if cfg.MailHost != "" && cfg.MailTo != "" {
		notifier = mail.NewLeadNotifier(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.MailTo)
	}

	// Repositories
	leadRepo := database.NewLeadRepository(db, zlog)
	statsRepo := database.NewStatsRepository(db, zlog)
	sourceRepo := database.NewLeadSourceRepository(db, zlog)

	// Use cases
	manageUC := usecase.NewManageLeadsUseCase(leadRepo, recorders, notifier, zlog)
	importUC := usecase.NewImportLeadsUseCase(leadRepo, recorders, zlog)
	exportUC := usecase.NewExportLeadsUseCase(leadRepo)
	statsUC := usecase.NewLeadStatsUseCase(statsRepo, statsCache, cfg.Timezone, zlog)
	sourcesUC := usecase.NewManageSourcesUseCase(sourceRepo)

	// Handlers
	leadHandler := handlers.NewLeadHandler(manageUC, importUC, exportUC, zlog)
	statsHandler := handlers.NewStatsHandler(statsUC, zlog)
	sourceHandler := handlers.NewSourceHandler(sourcesUC, zlog)
	healthHandler := handlers.NewHealthHandler(db, amqpConn, redisClient)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Identity)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With", "X-User-ID"},
	}))

	r.Route("/api/leads", func(r chi.Router) {
		r.Get("/", leadHandler.HandleList)
		r.Post("/", leadHandler.HandleCreate)
		r.Delete("/", leadHandler.HandleBulkDelete)
		r.Get("/recent", leadHandler.HandleRecent)
		r.Get("/statistics", statsHandler.HandleStatistics)
		r.Get("/trends", statsHandler.HandleTrends)
		r.Get("/export", leadHandler.HandleExport)
		r.Post("/import", leadHandler.HandleImport)
		r.Post("/import/file", leadHandler.HandleImportFile)
		r.Get("/{id}", leadHandler.HandleGet)
		r.Put("/{id}", leadHandler.HandleUpdate)
		r.Delete("/{id}", leadHandler.HandleDelete)
	})

	r.Route("/api/sources", func(r chi.Router) {
		r.Get("/", sourceHandler.HandleList)
		r.Post("/", sourceHandler.HandleCreate)
		r.Get("/{id}", sourceHandler.HandleGet)
		r.Put("/{id}", sourceHandler.HandleUpdate)
		r.Delete("/{id}", sourceHandler.HandleDelete)
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	zlog.Info("leadgen api listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
