package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/config"
	cronrunner "pnltracker/internal/cron"
	"pnltracker/internal/db"
	"pnltracker/internal/handler"
	"pnltracker/internal/livetrack"
	"pnltracker/internal/logger"
	gormrepository "pnltracker/internal/repository/gorm"
	"pnltracker/internal/settle"

	_ "pnltracker/docs"
)

func main() {
	cfgPath := os.Getenv("PNL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PNL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	statsHTTP := &http.Client{Timeout: cfg.Stats.Timeout}
	statsClient := nbastats.NewClient(statsHTTP, cfg.Stats.BaseURL, cfg.Stats.LiveBaseURL,
		cfg.Stats.RetryCount, cfg.Stats.RetryBackoff)
	teamCache := nbastats.NewTeamCache(statsClient, cfg.Stats.TeamCacheTTL)
	store := gormrepository.New(dbConn.Gorm)

	reconciler := settle.NewReconcileService(store, statsClient, logger, cfg.Settlement)
	bankroll := settle.NewBankrollService(store, logger, cfg.Betting.StartingBankroll)
	tracker := livetrack.NewTracker(store, statsClient, teamCache, logger,
		cfg.Live.AvgMinutes, cfg.Live.Timezone)

	gameLoc, err := time.LoadLocation(cfg.Live.Timezone)
	if err != nil {
		logger.Warn("invalid live timezone, using UTC", zap.String("tz", cfg.Live.Timezone))
		gameLoc = time.UTC
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	secured := engine.Group("", handler.RequireAPIKey(cfg.Auth.APIKey))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	summaryHandler := &handler.SummaryHandler{
		Repo:             store,
		StartingBankroll: bankroll.StartingBankroll(),
	}
	summaryHandler.Register(engine)
	betsHandler := &handler.BetsHandler{
		Repo:     store,
		Bankroll: bankroll,
		Teams:    teamCache,
		Logger:   logger,
		Loc:      gameLoc,
	}
	betsHandler.Register(engine, secured)
	actionsHandler := &handler.ActionsHandler{
		Reconciler: reconciler,
		Bankroll:   bankroll,
		Logger:     logger,
	}
	actionsHandler.Register(secured)
	if cfg.Live.Enabled {
		liveHandler := &handler.LiveHandler{
			Tracker:  tracker,
			Logger:   logger,
			Interval: cfg.Live.StreamInterval,
		}
		liveHandler.Register(engine)
	}

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err = cronRunner.Add(cfg.Cron.ResultUpdate, func(ctx context.Context) {
			res, err := reconciler.ReconcileRecent(ctx, 0)
			if err != nil {
				logger.Warn("cron result update failed", zap.Error(err))
				return
			}
			logger.Info("cron result update ok",
				zap.String("status", res.Status), zap.Int("updated", res.Updated))
			if err := bankroll.RecalculateSummaries(ctx); err != nil {
				logger.Warn("cron summary rebuild after update failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register result update failed", zap.Error(err))
		}

		_, err = cronRunner.Add(cfg.Cron.SummaryRebuild, func(ctx context.Context) {
			if err := bankroll.RecalculateSummaries(ctx); err != nil {
				logger.Warn("cron summary rebuild failed", zap.Error(err))
				return
			}
			logger.Info("cron summary rebuild ok")
		})
		if err != nil {
			logger.Warn("cron register summary rebuild failed", zap.Error(err))
		}

		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-API-Key")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
