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

	"stockpulse/internal/client/logo"
	"stockpulse/internal/client/microblog"
	"stockpulse/internal/client/newsfeed"
	"stockpulse/internal/client/reddit"
	"stockpulse/internal/client/yahoo"
	"stockpulse/internal/config"
	cronrunner "stockpulse/internal/cron"
	"stockpulse/internal/db"
	"stockpulse/internal/handler"
	"stockpulse/internal/logger"
	gormrepository "stockpulse/internal/repository/gorm"
	"stockpulse/internal/service"

	_ "stockpulse/docs"
)

func main() {
	cfgPath := os.Getenv("SP_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("SP_ENV_ONLY"); envOnlyRaw != "" {
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

	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	quoteClient := yahoo.NewClient(nil, cfg.Quote)
	logoClient := logo.NewClient(nil, cfg.Logo)
	redditClient := reddit.NewClient(nil, cfg.Reddit)
	microblogClient := microblog.NewClient(nil, cfg.Microblog)
	newsClient := newsfeed.NewClient(nil, cfg.News)

	ingestService := &service.IngestService{
		Store:     store,
		Quote:     quoteClient,
		Logo:      logoClient,
		Social:    redditClient,
		Microblog: microblogClient,
		News:      newsClient,
		Logger:    logger,
		Options: service.IngestOptions{
			PriceRange:   cfg.Quote.Range,
			BarWindow:    cfg.Ingest.BarWindow,
			Subreddits:   cfg.Reddit.Subreddits,
			Lookback:     cfg.Reddit.Lookback,
			NewsFilter:   newsfeed.ParseFilter(cfg.News.Filter),
			StageTimeout: cfg.Ingest.StageTimeout,
		},
	}
	queryService := &service.QueryService{Store: store, BarWindow: cfg.Ingest.BarWindow}
	resolver := &service.Resolver{
		Store:       store,
		Ingest:      ingestService,
		Logger:      logger,
		CoalesceTTL: cfg.Ingest.CoalesceTTL,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	stockHandler := &handler.StockHandler{
		Resolver:    resolver,
		Query:       queryService,
		Ingest:      ingestService,
		Logger:      logger,
		SearchLimit: cfg.Ingest.SearchLimit,
	}
	stockHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.Add("refresh_stale", cfg.Cron.Refresh, func(ctx context.Context) error {
			return ingestService.RefreshStale(ctx, cfg.Ingest.RefreshMaxAge)
		}); err != nil {
			logger.Warn("cron register refresh failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
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
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
