package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/volumetricpixels/questy/api/rest"
	"github.com/volumetricpixels/questy/api/sse"
	"github.com/volumetricpixels/questy/cache"
	"github.com/volumetricpixels/questy/config"
	dbadapter "github.com/volumetricpixels/questy/db"
	"github.com/volumetricpixels/questy/events"
	"github.com/volumetricpixels/questy/loader"
	mw "github.com/volumetricpixels/questy/middleware"
	"github.com/volumetricpixels/questy/model"
	"github.com/volumetricpixels/questy/quest"
	"github.com/volumetricpixels/questy/scheduler"
	"github.com/volumetricpixels/questy/store"
	storedb "github.com/volumetricpixels/questy/store/dbstore"
	storefile "github.com/volumetricpixels/questy/store/file"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if admin endpoints will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Progress store ----
	var progressStore store.Store
	switch cfg.Store.Mode {
	case "file":
		progressStore = storefile.New(cfg.Store.Dir)
	case "db":
		progressStore = storedb.New(db)
	default:
		log.Fatalf("store: unknown mode %q", cfg.Store.Mode)
	}
	logger.Info("progress store initialized", zap.String("mode", cfg.Store.Mode))

	// ---- Cache / PubSub ----
	cacheConfig := cache.CacheConfig{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
		LocalPubSubBuf:  cfg.Cache.LocalPubSubBuf,
	}
	c, err := cache.NewCache(cacheConfig)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cacheConfig)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("cache initialized")

	// ---- Quest engine ----
	mgr := quest.NewManager(logger)
	defs := loader.New(cfg.Engine.DefinitionsDir, logger)
	if err := defs.Load(mgr); err != nil {
		log.Fatalf("quest definitions: %v", err)
	}
	if err := mgr.Load(context.Background(), progressStore); err != nil {
		log.Fatalf("quest progress: %v", err)
	}

	// ---- Events ----
	eventSvc := events.New(db, logger)
	defer eventSvc.Stop(nil)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("auto_save", time.Duration(cfg.Engine.SaveIntervalS)*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mgr.Save(ctx, progressStore); err != nil {
			logger.Error("auto save failed", zap.Error(err))
		}
	})

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	questH := apirest.NewQuestHandler(mgr, eventSvc, pubsub, logger)
	adminH := apirest.NewAdminHandler(db, mgr, progressStore, sched, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/login", authH.Login)
		authG.POST("/logout", mw.Auth(cfg.Security, c), authH.Logout)
		authG.POST("/refresh", mw.Auth(cfg.Security, c), authH.Refresh)

		questsG := api.Group("/quests")
		questsG.Use(mw.Auth(cfg.Security, c))
		questsG.GET("", questH.List)
		questsG.GET("/:name", questH.Detail)
		questsG.POST("/:name/start", questH.Start)
		questsG.POST("/:name/objectives/:objective/resolve", questH.Resolve)
		questsG.POST("/:name/abandon", questH.Abandon)

		meG := api.Group("")
		meG.Use(mw.Auth(cfg.Security, c))
		meG.GET("/active", questH.Active)
		meG.GET("/completions", questH.Completions)

		adminG := api.Group("/admin")
		adminG.Use(apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.GET("/metrics", adminH.Metrics)
		adminG.POST("/save", adminH.Save)
		adminG.GET("/scheduler", adminH.ListSchedulerTasks)
	}

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, apirest.EventChannel, logger)
	r.GET("/sse", mw.Auth(cfg.Security, c), sseH.ServeSSE)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
