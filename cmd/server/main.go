package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/veritas-labs/veritas/internal/config"
	"github.com/veritas-labs/veritas/internal/factstore"
	"github.com/veritas-labs/veritas/internal/handler"
	"github.com/veritas-labs/veritas/internal/inference"
	"github.com/veritas-labs/veritas/internal/llm"
	"github.com/veritas-labs/veritas/internal/media"
	"github.com/veritas-labs/veritas/internal/middleware"
	"github.com/veritas-labs/veritas/internal/pkg/logger"
	"github.com/veritas-labs/veritas/internal/repository"
	"github.com/veritas-labs/veritas/internal/search"
	"github.com/veritas-labs/veritas/internal/service"
)

func main() {
	// 0. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 1. Initialize Logger and Error Reporting
	logger.Init(cfg.Server.LogLevel, cfg.Server.LogFormat)
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			logger.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// 2. Load Models
	if err := inference.InitRuntime(cfg.Models.ORTLibrary); err != nil {
		log.Fatalf("Failed to initialize ONNX Runtime: %v", err)
	}
	defer inference.ShutdownRuntime()

	faceDetector, err := inference.NewFaceDetector(cfg.Models.FaceDetector, cfg.Models.FaceConfidence, cfg.Models.Threads)
	if err != nil {
		log.Fatalf("Failed to load face detector: %v", err)
	}
	defer faceDetector.Close()

	imageModel, err := inference.NewImageClassifier(cfg.Models.ImageModel, cfg.Models.ImgSize, cfg.Models.Threads)
	if err != nil {
		log.Fatalf("Failed to load image model: %v", err)
	}
	defer imageModel.Close()

	videoModel, err := inference.NewVideoClassifier(cfg.Models.VideoModel, cfg.Models.ImgSize, cfg.Models.Threads)
	if err != nil {
		log.Fatalf("Failed to load video model: %v", err)
	}
	defer videoModel.Close()
	logger.Info("models loaded", "face_detector", cfg.Models.FaceDetector, "image_model", cfg.Models.ImageModel, "video_model", cfg.Models.VideoModel)

	// 3. Initialize Persistence
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = repository.NewRedisClient(cfg)
		if err == nil {
			logger.Info("connected to Redis")
			defer redisClient.Close()
		} else {
			redisClient = nil
			logger.Error("failed to connect to Redis, falling back to memory", "error", err)
		}
	}

	// Audit Persistence (Postgres | Redis | SQLite > Memory)
	var auditRepo service.AuditRepo
	var closeDB func() error
	switch cfg.Database.Driver {
	case repository.DriverPostgres:
		db, err := repository.NewPostgresDB(cfg)
		if err == nil {
			auditRepo, err = repository.NewPostgresAuditRepo(initCtx, db)
		}
		if err == nil {
			logger.Info("connected to PostgreSQL")
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				closeDB = sqlDB.Close
			}
		} else {
			auditRepo = nil
			logger.Error("failed to open PostgreSQL, audit records will be memory-only", "error", err)
		}
	case repository.DriverRedis:
		if redisClient != nil {
			auditRepo = repository.NewRedisAuditRepo(redisClient, cfg.Redis.KeyPrefix, 0)
		} else {
			logger.Error("database.driver is redis but Redis is unavailable, audit records will be memory-only")
		}
	default:
		db, err := repository.NewSQLiteDB(cfg.Database.DSN)
		if err == nil {
			auditRepo, err = repository.NewSQLiteAuditRepo(initCtx, db)
		}
		if err == nil {
			logger.Info("opened SQLite audit database", "dsn", cfg.Database.DSN)
			closeDB = db.Close
		} else {
			auditRepo = nil
			logger.Error("failed to open SQLite, audit records will be memory-only", "error", err)
		}
	}

	// Verdict Cache (Redis > Memory)
	var verdictCache service.VerdictCache
	if redisClient != nil {
		verdictCache = repository.NewRedisVerdictCache(redisClient, cfg.Redis.KeyPrefix)
	} else {
		verdictCache = service.NewMemoryVerdictCache()
	}

	// 4. Initialize Retrieval
	llmClient := llm.New(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.EmbedModel,
		llm.WithTimeout(time.Duration(cfg.LLM.TimeoutSeconds)*time.Second))

	facts, err := factstore.Open(cfg.RAG.VectorDir, llmClient.Embed)
	if err != nil {
		log.Fatalf("Failed to open trusted fact store: %v", err)
	}
	if err := facts.SeedIfEmpty(initCtx, factstore.BaselineSeed()); err != nil {
		logger.Error("failed to seed trusted facts", "error", err)
	}

	newsSearch := search.NewMultiSource(
		search.NewDuckDuckGo(cfg.RAG.SearchBaseURL, 15*time.Second),
		cfg.RAG.MaxWebResults,
	)

	// 5. Initialize Core Services
	auditSvc := service.NewAuditService(auditRepo)
	detectionSvc := service.NewDetectionService(faceDetector, imageModel, videoModel,
		media.NewFFmpegReader(cfg.Media.FFmpeg, cfg.Media.FFprobe),
		service.DetectionConfig{
			ImgSize:   cfg.Models.ImgSize,
			NumFrames: cfg.Models.NumFrames,
			MaxSeqLen: cfg.Models.MaxSeqLen,
		})
	factCheckSvc := service.NewFactCheckService(newsSearch, facts, llmClient,
		service.WithTrustedK(cfg.RAG.TrustedK),
		service.WithVerdictCache(verdictCache, time.Duration(cfg.RAG.CacheTTLSeconds)*time.Second))

	// 6. Setup Router
	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(cfg, handler.Handlers{
		Media: handler.NewMediaHandler(detectionSvc, auditSvc, cfg.Server.UploadDir, cfg.Server.MaxUploadMB),
		Claim: handler.NewClaimHandler(factCheckSvc, auditSvc),
		Audit: handler.NewAuditHandler(auditSvc),
	}, middleware.NewClientLimiter(cfg.RateLimit.QPS, cfg.RateLimit.Burst))

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("veritas started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if closeDB != nil {
		if err := closeDB(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}

	logger.Info("server exiting")
}
