package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	_ "workhub/docs"
	"workhub/internal/config"
	"workhub/internal/handlers"
	"workhub/internal/middleware"
	"workhub/internal/pdf"
	"workhub/internal/realtime"
	"workhub/internal/repositories"
	"workhub/internal/routes"
	"workhub/internal/services"
)

// App holds the wired dependencies of one process.
type App struct {
	cfg    *config.Config
	db     *sql.DB
	loc    *time.Location
	router *gin.Engine
	digest *services.DigestService
}

func New(cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	resetRepo := repositories.NewPasswordResetRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	entryRepo := repositories.NewTimeEntryRepository(db)
	workspaceRepo := repositories.NewWorkspaceRepository(db)

	// === Services ===
	jwtKey := []byte(cfg.Auth.JWTSecret)
	authService := services.NewAuthService(jwtKey, cfg.Auth.AccessTTL)
	userService := services.NewUserService(userRepo, authService)
	taskService := services.NewTaskService(taskRepo)
	entryService := services.NewTimeEntryService(entryRepo, taskRepo)
	dashboardService := services.NewDashboardService(taskRepo, entryRepo, workspaceRepo)
	reportService := services.NewReportService(taskRepo, entryRepo, workspaceRepo,
		pdf.NewReportGenerator(cfg.Reports.FontPath))

	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	tg, err := services.NewTelegramService(cfg.Telegram.BotToken)
	if err != nil {
		// без бота сервис работает, дайджесты уходят только на почту
		log.Printf("[app][warn] telegram disabled: %v", err)
		tg, _ = services.NewTelegramService("")
	}
	digest := services.NewDigestService(userRepo, taskRepo, tg, emailService)
	resetService := services.NewPasswordResetService(userRepo, resetRepo, emailService, authService)

	// === Handlers ===
	hub := realtime.NewBoardHub()
	clock := handlers.NewClock(loc)
	h := routes.Handlers{
		Auth:      handlers.NewAuthHandler(userService, authService, resetService),
		User:      handlers.NewUserHandler(userService),
		Task:      handlers.NewTaskHandler(taskService, loc, hub, tg, userService),
		TimeEntry: handlers.NewTimeEntryHandler(entryService, clock),
		Dashboard: handlers.NewDashboardHandler(dashboardService, clock),
		Report:    handlers.NewReportHandler(reportService, clock),
		Board:     handlers.NewBoardStreamHandler(hub),
		Digest:    handlers.NewDigestHandler(digest, clock),
	}

	// === Gin ===
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(corsMiddleware())
	routes.SetupRoutes(router, h, jwtKey)

	return &App{cfg: cfg, db: db, loc: loc, router: router, digest: digest}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Serve runs the HTTP server and, when enabled, the digest loop until ctx is
// cancelled, then shuts both down.
func (a *App) Serve(ctx context.Context) error {
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	done := make(chan struct{})
	if a.cfg.Digest.Enabled {
		go func() {
			defer close(done)
			a.digest.Run(loopCtx, a.cfg.Digest.Interval, a.now)
		}()
	} else {
		close(done)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler: a.router,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[app] listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Printf("[app] shut down signal received...")
	}

	stopLoop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	<-done
	log.Printf("[app] shut down gracefully")
	return nil
}

// SendDigest performs a single digest run.
func (a *App) SendDigest(ctx context.Context) (int, error) {
	return a.digest.SendOverdue(ctx, a.now())
}

func (a *App) now() time.Time {
	return time.Now().In(a.loc)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
