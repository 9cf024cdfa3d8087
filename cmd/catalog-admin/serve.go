package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/vitrine/catalog-admin/internal/api"
	"github.com/vitrine/catalog-admin/internal/core/ports"
	"github.com/vitrine/catalog-admin/internal/infrastructure/db/mongo"
	"github.com/vitrine/catalog-admin/internal/infrastructure/db/redis"
	"github.com/vitrine/catalog-admin/internal/infrastructure/queue"
	"github.com/vitrine/catalog-admin/internal/infrastructure/security"
	"github.com/vitrine/catalog-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, log, db, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		deps := api.Dependencies{
			DB:       db,
			Hasher:   security.NewBcryptHasher(cfg.Auth.BcryptCost),
			Tokens:   security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
			Activity: ports.NopRecorder{},
			Log:      logger.Component(log, "http"),
		}

		var mongoClient *mongodriver.Client
		if cfg.Mongo.URI != "" {
			client, mdb, err := mongo.Connect(ctx, mongo.Config{
				URI:      cfg.Mongo.URI,
				Database: cfg.Mongo.Database,
				AppName:  "catalog-admin",
			})
			if err != nil {
				return err
			}
			mongoClient = client
			deps.Mongo = mdb

			activityRepo := mongo.NewActivityRepository(mdb)
			if err := activityRepo.EnsureIndexes(ctx); err != nil {
				log.Warn().Err(err).Msg("activity indexes not created")
			}
			dispatcher := queue.NewDispatcher(cfg.Activity.Workers, activityRepo, logger.Component(log, "activity"))
			dispatcher.Start(ctx)
			deps.Activity = dispatcher
		} else {
			log.Info().Msg("MONGO_URI not set, activity log disabled")
		}

		var redisClient *goredis.Client
		if cfg.Redis.Addr != "" {
			client, err := redis.Connect(ctx, redis.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				return err
			}
			redisClient = client
			deps.Redis = client
			deps.Throttle = redis.NewLoginThrottle(client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockWindow)
		} else {
			log.Info().Msg("REDIS_ADDR not set, login throttling disabled")
		}

		e := api.NewRouter(deps)

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Msg("http server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
		if redisClient != nil {
			_ = redisClient.Close()
		}
		if mongoClient != nil {
			_ = mongoClient.Disconnect(shutdownCtx)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
