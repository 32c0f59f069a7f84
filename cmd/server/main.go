package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkpress/blog-platform/internal/api"
	"github.com/inkpress/blog-platform/internal/core/token"
	"github.com/inkpress/blog-platform/internal/infrastructure/config"
	mongodb "github.com/inkpress/blog-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/inkpress/blog-platform/internal/infrastructure/db/redis"
	"github.com/inkpress/blog-platform/internal/infrastructure/mail"
	"github.com/inkpress/blog-platform/internal/infrastructure/storage"
	"github.com/inkpress/blog-platform/internal/infrastructure/sweep"
	"github.com/inkpress/blog-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Blog Platform API
// @version      1.0
// @description  REST API for the blog platform: accounts, sessions, posts, comments, categories, and role-based authorization.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureAllIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	if err := mongodb.Seed(ctx, mongodb.NewRoleRepository(db), mongodb.NewPermissionRepository(db), log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Outbound mail ---
	mailer := mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := mail.NewDispatcher(cfg.SMTP.Workers, mailer, log)
	dispatcher.Start(ctx)

	// --- Uploads ---
	uploads, err := storage.NewStore(cfg.Uploads.TempDir, cfg.Uploads.AvatarDir, cfg.Uploads.PostImageDir, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("upload store init failed")
	}

	// --- Unverified-account retention sweep ---
	sweeper := sweep.NewSweeper(mongodb.NewUserRepository(db), cfg.Sweep.UnverifiedRetention, cfg.Sweep.Interval, log)
	sweeper.Start(ctx)

	issuer := token.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	e := api.NewRouter(api.RouterConfig{
		DB:           db,
		Redis:        rdb,
		Issuer:       issuer,
		Mail:         dispatcher,
		Uploads:      uploads,
		BaseURL:      cfg.BaseURL,
		AvatarDir:    cfg.Uploads.AvatarDir,
		PostImageDir: cfg.Uploads.PostImageDir,
		Log:          log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
