package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"    // .env bootstrap for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/todo-list-api/internal/config"
	"github.com/iliyamo/todo-list-api/internal/database"
	"github.com/iliyamo/todo-list-api/internal/handler"
	"github.com/iliyamo/todo-list-api/internal/middleware"
	"github.com/iliyamo/todo-list-api/internal/queue"
	"github.com/iliyamo/todo-list-api/internal/repository"
	"github.com/iliyamo/todo-list-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	users := repository.NewUserRepo(db)
	todos := repository.NewTodoRepo(db)
	comments := repository.NewCommentRepo(db)

	// Redis is optional infrastructure: a nil client turns the cache and
	// rate limiter into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb)
	requireUser := middleware.RequireUser(cfg.JWTSecret, users)

	// Background consumer writing todo activity to logs/activity.log. It
	// reconnects on its own; a missing broker never blocks startup.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(middleware.TokenExtractor())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), limit)
	router.RegisterAPI(e,
		handler.NewTodoHandler(todos, users),
		handler.NewCommentHandler(comments, users),
		handler.NewUserHandler(users, comments),
		requireUser, cache)
	if cfg.Env == "test" {
		router.RegisterTesting(e, handler.NewTestingHandler(users, todos, comments))
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
