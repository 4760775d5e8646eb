package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/notekeep/notekeep-server/internal/config"
	"github.com/notekeep/notekeep-server/internal/database"
	"github.com/notekeep/notekeep-server/internal/handler"
	"github.com/notekeep/notekeep-server/internal/middleware"
	"github.com/notekeep/notekeep-server/internal/queue"
	"github.com/notekeep/notekeep-server/internal/repository"
	"github.com/notekeep/notekeep-server/internal/router"
)

func main() {
	cfg := config.Load() // Load .env + environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("database: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	notes := repository.NewNoteRepo(db)

	authH := handler.NewAuthHandler(cfg, users)
	noteH := handler.NewNoteHandler(notes)
	shareH := handler.NewShareHandler(cfg, notes)

	// Redis-backed limiter for the unauthenticated surface; nil client
	// means the middleware is a pass-through.
	rdb := config.NewRedisClient()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterNotes(e, noteH, cfg.JWTSecret)
	router.RegisterShare(e, shareH, cfg.JWTSecret, limiter)

	// Owner notifications: consume access-request events in the
	// background. The consumer runs its own reconnect loop.
	go func() {
		if err := queue.StartAccessRequestConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
