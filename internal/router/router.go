// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/config"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/handler"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/middleware"
)

// Deps collects everything route registration needs. The Redis client may be
// nil; caching and rate limiting then run as pass-throughs.
type Deps struct {
	Auth      *handler.AuthHandler
	Movies    *handler.MovieHandler
	Reviews   *handler.ReviewHandler
	Ratings   *handler.RatingHandler
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// Register sets up all routes on the provided Echo instance.
//
// Browse endpoints (movie lists, the grid, search, reviews of a movie and
// average ratings) are public; everything that writes or returns
// caller-specific data sits behind JWT auth under /v1.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	cache := middleware.NewRedisCache(d.Cache, d.Redis)

	// Auth endpoints are rate limited: they are the brute-force surface.
	authGroup := e.Group("/v1/auth", limiter)
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/logout", d.Auth.Logout)

	// Public read-only browse endpoints, served through the response cache.
	e.GET("/v1/movies", d.Movies.List, cache)
	e.GET("/v1/movies/grid", d.Movies.Grid, cache)
	e.GET("/v1/movies/search", d.Movies.Search, cache)
	e.GET("/v1/movies/:id", d.Movies.Get, cache)
	e.GET("/v1/movies/:id/reviews", d.Reviews.ListByMovie, cache)
	e.GET("/v1/movies/:id/rating/average", d.Ratings.Average, cache)
	e.GET("/v1/reviews/:id", d.Reviews.Get, cache)

	// Everything below requires a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(d.JWTSecret))

	auth.GET("/profile", d.Auth.Profile)

	auth.POST("/movies", d.Movies.Create)
	auth.PUT("/movies/:id", d.Movies.Update)
	auth.DELETE("/movies/:id", d.Movies.Delete)
	auth.GET("/movies/mine", d.Movies.Mine)

	auth.POST("/movies/:id/reviews", d.Reviews.Create)
	auth.GET("/movies/:id/can-review", d.Reviews.CanReview)
	auth.PUT("/reviews/:id", d.Reviews.Update)
	auth.DELETE("/reviews/:id", d.Reviews.Delete)
	auth.GET("/reviews/mine", d.Reviews.Mine)

	auth.PUT("/movies/:id/rating", d.Ratings.Upsert)
	auth.GET("/movies/:id/rating", d.Ratings.GetMine)
	auth.DELETE("/movies/:id/rating", d.Ratings.Delete)
	auth.GET("/ratings/mine", d.Ratings.ListMine)
}
