// @title        Pizza Book API
// @version      1.0
// @description  Personal pizza recipe book: create, list and hide pizzas owned by the signed-in user.
// @BasePath     /
//
// @securityDefinitions.apikey  SessionToken
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pizzabook/pizza-api/internal/api"
	"github.com/pizzabook/pizza-api/internal/core/service"
	"github.com/pizzabook/pizza-api/internal/infrastructure/config"
	mongostore "github.com/pizzabook/pizza-api/internal/infrastructure/db/mongo"
	redisstore "github.com/pizzabook/pizza-api/internal/infrastructure/db/redis"
	"github.com/pizzabook/pizza-api/internal/infrastructure/http/handlers"
	"github.com/pizzabook/pizza-api/internal/infrastructure/queue"
	"github.com/pizzabook/pizza-api/pkg/logger"
)

func main() {
	_ = godotenv.Load() // load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, nil)
	if err != nil {
		// The logger is not configured yet; fall back to a default one.
		l := logger.Init(logger.Options{Service: "pizza-api"})
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "pizza-api",
	})

	// --- MongoDB ---
	store := mongostore.NewStore(mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	// Repositories connect on first use; an unreachable server at startup only
	// fails the index setup below and the readiness probe.
	userRepo := mongostore.NewUserRepository(store)
	pizzaRepo := mongostore.NewPizzaRepository(store)
	eventRepo := mongostore.NewEventRepository(store)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	if err := pizzaRepo.EnsureIndexes(ctx); err != nil {
		// Existing duplicate (createdBy, name) pairs prevent the unique index;
		// the service-level existence check still applies.
		log.Warn().Err(err).Msg("failed to ensure pizza indexes")
	}

	// --- Redis ---
	rdb := redisstore.NewClient(redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, rate limiting disabled until it recovers")
	}
	limiter := redisstore.NewRateLimiter(rdb, "create", cfg.RateLimit.Create, cfg.RateLimit.Window)

	// --- Activity log ---
	activity := service.NewActivityService(eventRepo, logger.Component("activity"))
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, activity, logger.Component("dispatcher"))
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Services ---
	users := service.NewUserDirectory(userRepo)
	pizzas := service.NewPizzaService(users, pizzaRepo, dispatcher, logger.Component("pizzas"))

	e := api.NewRouter(api.Dependencies{
		Pizzas:  pizzas,
		Users:   users,
		Limiter: limiter,
		Readiness: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(store),
			"redis":   handlers.RedisCheck(rdb),
		},
		SessionSecret: cfg.Session.Secret,
		SessionCookie: cfg.Session.Cookie,
		Logger:        logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("activity queue not fully drained")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("mongodb close")
	}

	log.Info().Msg("bye")
}
