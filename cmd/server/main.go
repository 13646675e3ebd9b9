package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"finaily/internal/auth"
	"finaily/internal/config"
	cronrunner "finaily/internal/cron"
	"finaily/internal/db"
	"finaily/internal/handler"
	"finaily/internal/llm"
	"finaily/internal/logger"
	"finaily/internal/news"
	"finaily/internal/quota"
	gormrepository "finaily/internal/repository/gorm"
	"finaily/internal/service"
	"finaily/internal/summarizer"

	_ "finaily/docs"
)

func main() {
	cfgPath := os.Getenv("FA_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("FA_ENV_ONLY"); envOnlyRaw != "" {
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

	store := gormrepository.New(dbConn.Gorm)

	quotaLoc, err := time.LoadLocation(cfg.Quota.Timezone)
	if err != nil {
		logger.Warn("invalid quota timezone, using UTC", zap.String("tz", cfg.Quota.Timezone))
		quotaLoc = time.UTC
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable at startup", zap.Error(err))
		}
		cancel()
	}

	var quotaGate quota.Gate
	switch cfg.Quota.Backend {
	case "redis":
		if redisClient == nil {
			logger.Fatal("quota backend is redis but redis.addr is empty")
		}
		quotaGate = &quota.RedisGate{Client: redisClient, Limit: cfg.Quota.DailyLimit, Loc: quotaLoc, Logger: logger}
	case "postgres":
		quotaGate = &quota.PostgresGate{Repo: store, Limit: cfg.Quota.DailyLimit, Loc: quotaLoc}
	case "memory":
		quotaGate = &quota.MemoryGate{Limit: cfg.Quota.DailyLimit, Loc: quotaLoc}
	default:
		logger.Fatal("unknown quota backend", zap.String("backend", cfg.Quota.Backend))
	}

	yahooClient := news.NewYahooClient(&http.Client{Timeout: cfg.News.Yahoo.Timeout}, cfg.News.Yahoo.BaseURL)
	rssFeeds := make([]news.Feed, 0, len(cfg.News.RSS.Feeds))
	for _, f := range cfg.News.RSS.Feeds {
		rssFeeds = append(rssFeeds, news.Feed{Name: f.Name, URL: f.URL})
	}
	rssClient := news.NewRSSClient(rssFeeds, cfg.News.RSS.Timeout, logger)
	fetcher := &news.Fetcher{
		Primary:         yahooClient,
		Secondary:       rssClient,
		Repo:            store,
		Logger:          logger,
		MinArticles:     cfg.Fetch.MinArticles,
		ArticleTTL:      cfg.Fetch.ArticleTTL,
		MaxContentChars: cfg.Fetch.MaxContentChars,
	}

	llmClient, err := llm.New(cfg.LLM)
	if err != nil {
		logger.Fatal("llm client init failed", zap.Error(err))
	}
	digestSummarizer := &summarizer.Summarizer{
		Client:       llmClient,
		Logger:       logger,
		Languages:    cfg.Digest.Languages,
		MaxBullets:   cfg.Digest.MaxBullets,
		ExcerptChars: cfg.Digest.ExcerptChars,
		Timeout:      cfg.LLM.Timeout,
	}

	tickerService := &service.TickerService{Repo: store, Directory: yahooClient, Logger: logger}
	digestCache := &service.DigestCache{Repo: store, TTL: cfg.Digest.TTL}
	digestService := &service.DigestService{
		Repo:        store,
		Tickers:     tickerService,
		Fetcher:     fetcher,
		Summarizer:  digestSummarizer,
		Cache:       digestCache,
		Quota:       quotaGate,
		Logger:      logger,
		Languages:   cfg.Digest.Languages,
		MaxArticles: cfg.Fetch.MaxArticles,
	}
	userService := &service.UserService{Repo: store, Languages: cfg.Digest.Languages}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORSMiddleware())

	verifier := auth.JWT{Secret: []byte(cfg.Auth.JWTSecret), Issuer: cfg.Auth.Issuer}
	engine.Use(handler.IdentityMiddleware(verifier))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	newsHandler := &handler.NewsHandler{Service: digestService, Logger: logger}
	newsHandler.Register(engine)
	tickerHandler := &handler.TickerHandler{
		Service:   tickerService,
		Logger:    logger,
		RateLimit: handler.RateLimitMiddleware(cfg.Search.RatePerMinute, cfg.Search.RateBurst),
	}
	tickerHandler.Register(engine)
	userHandler := &handler.UserHandler{Service: userService, Logger: logger}
	userHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		housekeeper := &cronrunner.Housekeeper{
			Repo:            store,
			Logger:          logger,
			DigestRetention: cfg.Retention.Digest,
			QuotaLocation:   quotaLoc,
		}
		if _, err := cronRunner.Add(cfg.Cron.DigestCleanup, housekeeper.CleanDigests); err != nil {
			logger.Warn("cron register digest cleanup failed", zap.Error(err))
		}
		if _, err := cronRunner.Add(cfg.Cron.QuotaCleanup, housekeeper.CleanQuotas); err != nil {
			logger.Warn("cron register quota cleanup failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
