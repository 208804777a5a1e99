// Package main runs the conference dashboard backend: the live simulation,
// the analytics API and the WebSocket snapshot stream.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/confpulse/backend/config"
	"github.com/confpulse/backend/internal/analytics"
	"github.com/confpulse/backend/internal/auth"
	"github.com/confpulse/backend/internal/dashboard"
	"github.com/confpulse/backend/internal/middleware"
	"github.com/confpulse/backend/internal/models"
	"github.com/confpulse/backend/internal/realtime"
	"github.com/confpulse/backend/internal/simulation"
	"github.com/confpulse/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	var rng *rand.Rand
	if cfg.Simulation.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Simulation.Seed))
	}
	sim := simulation.New(rng, time.Now, logger)

	sessionAnalytics := analytics.NewSessionService(cfg.Analytics.CacheTTL, logger)
	aggregateAnalytics := analytics.NewAggregateService(cfg.Analytics.CacheTTL, logger)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	accounts := []auth.Credentials{
		{Username: cfg.Dashboard.OrganizerUser, PasswordHash: cfg.Dashboard.OrganizerHash, Role: auth.RoleOrganizer},
	}
	if cfg.Dashboard.ViewerHash != "" {
		accounts = append(accounts, auth.Credentials{
			Username: cfg.Dashboard.ViewerUser, PasswordHash: cfg.Dashboard.ViewerHash, Role: auth.RoleViewer,
		})
	}
	authHandler := auth.NewHandler(accounts, jwtService, logger)

	hub := realtime.NewHub(logger)
	unsubscribe := sim.Subscribe(func(snap models.Snapshot) {
		hub.Broadcast("snapshot", snap)
	})
	defer unsubscribe()

	handler := dashboard.NewHandler(sim, sessionAnalytics, aggregateAnalytics, logger)

	jwtValidate := func(token string) (username, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.Username, claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	router.POST("/auth/login", authHandler.Login)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/snapshot", handler.Snapshot)
		api.GET("/metrics", handler.Metrics)
		api.GET("/sessions", handler.Sessions)
		api.GET("/speakers", handler.Speakers)
		api.GET("/attendees", handler.Attendees)
		api.GET("/feedback", handler.Feedback)

		api.GET("/analytics/sessions/stats", handler.SessionStats)
		api.GET("/analytics/sessions/top", handler.TopSessions)
		api.GET("/analytics/sessions/trends", handler.AttendanceTrends)
		api.GET("/analytics/sessions/categories", handler.ByCategory)
		api.GET("/analytics/sessions/attention", handler.NeedingAttention)
		api.GET("/analytics/sessions/:id/prediction", handler.PredictAttendance)
		api.GET("/analytics/summary", handler.Summary)
		api.GET("/analytics/charts/sessions", handler.SessionCharts)
		api.GET("/analytics/charts/speakers", handler.SpeakerCharts)
		api.GET("/analytics/charts/feedback", handler.FeedbackCharts)
		api.GET("/analytics/sentiment", handler.Sentiment)
		api.GET("/analytics/roi", handler.ROI)
		api.GET("/analytics/insights", handler.Insights)

		// Simulation control (organizer only)
		api.POST("/simulation/start", middleware.RequireRole(auth.RoleOrganizer), handler.Start)
		api.POST("/simulation/stop", middleware.RequireRole(auth.RoleOrganizer), handler.Stop)
		api.POST("/simulation/reset", middleware.RequireRole(auth.RoleOrganizer), handler.Reset)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	if cfg.Simulation.AutoStart {
		sim.Start(cfg.Simulation.TickInterval)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sim.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
