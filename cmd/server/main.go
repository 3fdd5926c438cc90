package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tempohq/tempo/internal/config"
	"github.com/tempohq/tempo/internal/handler"
	"github.com/tempohq/tempo/internal/realtime"
	"github.com/tempohq/tempo/internal/repository"
	"github.com/tempohq/tempo/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	hub := realtime.NewHub()

	var (
		projectStore service.ProjectStore
		meetingStore service.MeetingStore
		userStore    service.UserStore
	)

	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := repository.NewMemoryStore(hub)
		projectStore = mem.Projects()
		meetingStore = mem.Meetings()
		userStore = mem.Users()
		slog.Info("using in-memory store")
	default:
		db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}

		projectStore = repository.NewProjectRepository(db, hub)
		meetingStore = repository.NewMeetingRepository(db, hub)
		userStore = repository.NewUserRepository(db)
		slog.Info("database connected")
	}

	projectSvc := service.NewProjectService(projectStore)
	meetingSvc := service.NewMeetingService(meetingStore)
	authSvc := service.NewAuthService(userStore, service.AuthConfig{
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		JWTSecret:          cfg.JWTSecret,
		FrontendURL:        cfg.FrontendURL,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	meetingHandler := handler.NewMeetingHandler(meetingSvc)
	notificationHandler := handler.NewNotificationHandler()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)

	protected := api.Group("", handler.JWTAuth(authSvc))
	protected.GET("/auth/me", authHandler.Me)

	protected.POST("/projects", projectHandler.Create)
	protected.GET("/projects", projectHandler.List)
	protected.GET("/projects/stream", projectHandler.Stream)
	protected.PATCH("/projects/:id", projectHandler.Update)
	protected.DELETE("/projects/:id", projectHandler.Delete)

	protected.POST("/projects/:id/meetings", meetingHandler.Create)
	protected.GET("/projects/:id/meetings", meetingHandler.List)
	protected.GET("/projects/:id/meetings/stream", meetingHandler.Stream)
	protected.PATCH("/projects/:id/meetings/:meetingId", meetingHandler.Update)
	protected.DELETE("/projects/:id/meetings/:meetingId", meetingHandler.Delete)

	protected.POST("/notifications/derive", notificationHandler.Derive)
	protected.POST("/schedule/conflicts", notificationHandler.CheckConflict)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port)
		errCh <- e.Start(fmt.Sprintf(":%d", cfg.Port))
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
