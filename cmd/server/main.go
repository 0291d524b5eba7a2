package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/config"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/database"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/handler"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/queue"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/repository"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/router"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	reviews := repository.NewReviewRepo(db)
	ratings := repository.NewRatingRepo(db)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Movies:    handler.NewMovieHandler(movies, reviews, ratings),
		Reviews:   handler.NewReviewHandler(reviews, movies),
		Ratings:   handler.NewRatingHandler(ratings, movies),
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
