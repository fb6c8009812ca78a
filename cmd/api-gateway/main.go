// Package main is the HTTP API entrypoint.
//
// @title						Rental Marketplace API
// @version					1.0
// @description				Accommodation and vehicle rental marketplace.
// @BasePath					/api/v1
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rentalhub/marketplace-backend/internal/common/cache"
	"github.com/rentalhub/marketplace-backend/internal/common/config"
	"github.com/rentalhub/marketplace-backend/internal/common/database"
	"github.com/rentalhub/marketplace-backend/internal/common/logger"
	"github.com/rentalhub/marketplace-backend/internal/common/metrics"
	"github.com/rentalhub/marketplace-backend/internal/common/tracing"
	"github.com/rentalhub/marketplace-backend/internal/models"
	"github.com/rentalhub/marketplace-backend/internal/scheduler"
	"github.com/rentalhub/marketplace-backend/internal/service/events"
	"github.com/rentalhub/marketplace-backend/pkg/mqtt"
	"github.com/rentalhub/marketplace-backend/pkg/sms"
	"github.com/rentalhub/marketplace-backend/pkg/storage"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()
	log.Info("Starting rental marketplace backend",
		zap.String("name", cfg.Server.Name),
		zap.String("env", cfg.Server.Mode),
	)

	switch {
	case cfg.IsRelease():
		gin.SetMode(gin.ReleaseMode)
	case cfg.Server.Mode == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Redis backs the stats cache and auth rate limit; both degrade without it.
	var redisClient *redis.Client
	if rdb, err := cache.NewClient(&cfg.Redis); err != nil {
		log.Warn("Redis unavailable, caching and rate limiting disabled", zap.Error(err))
	} else {
		redisClient = rdb
		log.Info("Redis connected successfully")
	}

	tracer, err := tracing.Init(&cfg.Tracing, cfg.Server.Mode)
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	uploader, err := newUploader(cfg)
	if err != nil {
		log.Fatal("Failed to init upload storage", zap.Error(err))
	}

	var sender sms.Sender = sms.NewMockSender()
	if cfg.SMS.Enabled {
		aliyun, err := sms.NewAliyunSender(&sms.AliyunConfig{
			AccessKeyID:     cfg.SMS.AccessKeyID,
			AccessKeySecret: cfg.SMS.AccessKeySecret,
			SignName:        cfg.SMS.SignName,
			Endpoint:        cfg.SMS.Endpoint,
		})
		if err != nil {
			log.Fatal("Failed to init SMS sender", zap.Error(err))
		}
		sender = aliyun
	}

	var publisher events.Publisher
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient = mqtt.NewClient(&mqtt.Config{
			Broker:         cfg.MQTT.Broker,
			ClientID:       cfg.MQTT.ClientID,
			Username:       cfg.MQTT.Username,
			Password:       cfg.MQTT.Password,
			QoS:            cfg.MQTT.QoS,
			ConnectTimeout: time.Duration(cfg.MQTT.ConnectTimeout) * time.Second,
		})
		if err := mqttClient.Connect(); err != nil {
			log.Warn("MQTT broker unavailable, status events disabled", zap.Error(err))
			mqttClient = nil
		} else {
			publisher = mqttClient
			log.Info("MQTT connected", zap.String("broker", cfg.MQTT.Broker))
		}
	}

	engine := gin.New()
	tasks := setupRouter(engine, &dependencies{
		cfg:       cfg,
		logger:    log,
		db:        db,
		redis:     redisClient,
		uploader:  uploader,
		sms:       sender,
		publisher: publisher,
		metrics:   m,
	})

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(log)
		tasks.Register(sched, time.Duration(cfg.Scheduler.StatsInterval)*time.Second)
		sched.Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop()
	}
	if mqttClient != nil {
		mqttClient.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := database.Close(db); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	if err := tracer.Shutdown(ctx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited")
}

func newUploader(cfg *config.Config) (storage.Uploader, error) {
	switch cfg.Upload.Driver {
	case "oss":
		u, err := storage.NewAliyunUploader(&storage.AliyunConfig{
			Endpoint:        cfg.OSS.Endpoint,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			BucketName:      cfg.OSS.Bucket,
			Domain:          cfg.OSS.CustomDomain,
			BasePath:        cfg.OSS.BasePath,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return storage.NewLocalUploader(cfg.Upload.Dir, cfg.Upload.PublicPrefix), nil
	}
}
