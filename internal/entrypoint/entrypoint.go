package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/annotator/internal/audit"
	"github.com/mrlokans/annotator/internal/auth"
	"github.com/mrlokans/annotator/internal/config"
	"github.com/mrlokans/annotator/internal/database"
	"github.com/mrlokans/annotator/internal/database/annotations"
	auditrepo "github.com/mrlokans/annotator/internal/database/audit"
	"github.com/mrlokans/annotator/internal/database/documents"
	"github.com/mrlokans/annotator/internal/database/labels"
	"github.com/mrlokans/annotator/internal/database/projects"
	"github.com/mrlokans/annotator/internal/database/users"
	"github.com/mrlokans/annotator/internal/exporters"
	http_controllers "github.com/mrlokans/annotator/internal/http"
	"github.com/mrlokans/annotator/internal/importers"
	"github.com/mrlokans/annotator/internal/logging"
	"github.com/mrlokans/annotator/internal/readonly"
	"github.com/mrlokans/annotator/internal/scheduler"
	"github.com/mrlokans/annotator/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 sends SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before tearing down what handlers depend on
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	slog.Info("server exiting")
}

// sessionSecret decodes AUTH_SESSION_SECRET, or generates a per-process
// secret when none is configured.
func sessionSecret(configured string) ([]byte, error) {
	if configured != "" {
		secret, err := hex.DecodeString(configured)
		if err != nil {
			// Not hex, use as raw bytes
			return []byte(configured), nil
		}
		return secret, nil
	}

	generated, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	slog.Warn("generated session secret; set AUTH_SESSION_SECRET to keep CSRF tokens valid across restarts")
	return hex.DecodeString(generated)
}

func Run(cfg *config.Config, version string) {
	closeLog := logging.Setup(cfg.Logging.Level, cfg.Logging.File)
	defer closeLog()

	slog.Info("starting annotator", "version", version)

	db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	projectRepo := projects.NewRepository(db.DB)
	labelRepo := labels.NewRepository(db.DB)
	documentRepo := documents.NewRepository(db.DB)

	batchSize := cfg.Import.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultImportBatchSize
	}
	pipeline := importers.NewPipeline(documentRepo, annotations.NewRepository(db.DB), labelRepo, batchSize)
	exporter := exporters.NewExporter(documentRepo, batchSize)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	authService := auth.NewService(users.NewRepository(db.DB))

	// Task queue runs audit cleanup off the request path
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks))
		if err != nil {
			slog.Error("failed to initialize task queue", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				slog.Error("error closing task client", "error", err)
			}
		}()

		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var enqueuer scheduler.AuditCleanupEnqueuer
	if taskClient != nil {
		enqueuer = taskClient
	}
	cleanupScheduler := scheduler.NewAuditCleanupScheduler(
		cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, enqueuer, auditService)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := cleanupScheduler.Start(schedulerCtx); err != nil {
		slog.Error("failed to start audit cleanup scheduler", "error", err)
		os.Exit(1)
	}

	var rateLimiter *auth.RateLimiter
	if cfg.Auth.Mode == config.AuthModeToken {
		slog.Info("authentication mode: token")
		rateLimiter = auth.NewRateLimiter(auth.DefaultRateLimitConfig())
		defer rateLimiter.Stop()
	} else {
		slog.Info("authentication mode: none (no authentication required)")
	}
	authMiddleware := auth.NewMiddleware(authService, rateLimiter, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		slog.Error("failed to get SQL DB for sessions", "error", err)
		os.Exit(1)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		slog.Error("failed to initialize session manager", "error", err)
		os.Exit(1)
	}

	var csrfSecret []byte
	if cfg.Auth.CSRFEnabled {
		csrfSecret, err = sessionSecret(cfg.Auth.SessionSecret)
		if err != nil {
			slog.Error("failed to generate CSRF secret", "error", err)
			os.Exit(1)
		}
	}

	readOnly := readonly.NewMiddleware(cfg.Global.ReadOnly)
	if readOnly.IsEnabled() {
		slog.Info("read-only mode enabled; uploads and deletes are refused")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Projects:       projectRepo,
		Labels:         labelRepo,
		Dataset:        documentRepo,
		Importer:       pipeline,
		Exporter:       exporter,
		Database:       db,
		AuditService:   auditService,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		AuthConfig:     cfg.Auth,
		SessionManager: sessionManager,
		ReadOnly:       readOnly,
		CSRFSecret:     csrfSecret,
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
