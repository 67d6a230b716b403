package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/minjae-dev/resume-hub/internal/config"
	"github.com/minjae-dev/resume-hub/internal/database"
	"github.com/minjae-dev/resume-hub/internal/handler"
	"github.com/minjae-dev/resume-hub/internal/queue"
	"github.com/minjae-dev/resume-hub/internal/repository"
	"github.com/minjae-dev/resume-hub/internal/router"
	queuepublisher "github.com/minjae-dev/resume-hub/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	resumes := repository.NewResumeRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	resumeHandler := handler.NewResumeHandler(resumes, queuepublisher.PublishStatusChanged)

	// Nil client disables the response cache; the API works without Redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache disabled")
	}

	// Background audit-log consumer; reconnects on its own.
	go queue.StartStatusConsumer()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg, users, tokens)
	router.RegisterUsers(e, cfg, users)
	router.RegisterResumes(e, resumeHandler, cfg, users, config.LoadCacheConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
