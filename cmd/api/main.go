package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"Inkle_Social/internal/config"
	"Inkle_Social/internal/metrics"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/pkg/logging"
	"Inkle_Social/internal/repository/redis"
	"Inkle_Social/internal/repository/sqldb"
	"Inkle_Social/internal/router"
	"Inkle_Social/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log)
	slog.SetDefault(log)
	log.Info("starting", "config", cfg.String())

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := sqldb.Open(cfg.Database.URL, sqldb.Options{
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}

	// 自动建表
	if err = sqldb.AutoMigrate(db); err != nil {
		log.Error("migrate", "error", err)
		os.Exit(1)
	}

	tokens, err := pkg.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		log.Error("token service", "error", err)
		os.Exit(1)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	userOpts := service.UserServiceOptions{OwnerEmail: cfg.Auth.OwnerEmail, Logger: log}

	// 连接redis，用于登出吊销
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(rootCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		userOpts.Revoker = &redis.TokenRepository{Client: rdb}
	}

	if mailCfg := cfg.SMTP.Mailer(); mailCfg.Enabled() {
		userOpts.Mailer = pkg.NewSMTPMailer(mailCfg)
	}

	m := metrics.New()
	kafkaCfg := cfg.Kafka.Producer()
	activity := service.NewActivityService(kafkaCfg.Enabled(), m)

	if kafkaCfg.Enabled() {
		producer := pkg.NewKafkaProducer(kafkaCfg)
		defer producer.Close()
		relayer := service.NewOutboxRelayer(db, service.KafkaSender(producer), cfg.Kafka.RelayBatch, cfg.Kafka.RelayInterval, m, log)
		go relayer.Run(rootCtx)
		log.Info("outbox relayer started", "brokers", kafkaCfg.Brokers, "topic", kafkaCfg.Topic)
	}

	r := router.InitRouter(router.Deps{
		DB:         db,
		Users:      service.NewUserService(db, tokens, userOpts),
		Posts:      service.NewPostService(db, activity),
		Follows:    service.NewFollowService(db, activity),
		Blocks:     service.NewBlockService(db, activity),
		Likes:      service.NewLikeService(db, activity),
		Feed:       service.NewFeedService(db),
		Admin:      service.NewAdminService(db, activity),
		Metrics:    m,
		Logger:     log,
		CORSOrigin: cfg.Server.CORSOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	log.Info("shutting down server")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exiting")
}
