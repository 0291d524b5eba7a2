package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/queue"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/repository"
	queue_publisher "github.com/AmitKshirsagar999/ReviewApp-updated/internal/service"
)

// RatingHandler serves the star ratings. Submitting a rating for a movie the
// caller already rated overwrites the old value (last writer wins).
type RatingHandler struct {
	Ratings ratingStore
	Movies  movieStore
}

func NewRatingHandler(ratings ratingStore, movies movieStore) *RatingHandler {
	if ratings == nil || movies == nil {
		panic("nil repository passed to NewRatingHandler")
	}
	return &RatingHandler{Ratings: ratings, Movies: movies}
}

type ratingReq struct {
	RatingValue int `json:"rating_value"`
}

// Upsert handles PUT /v1/movies/:id/rating.
func (h *RatingHandler) Upsert(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ratingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RatingValue < 1 || req.RatingValue > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating_value must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Movies.Exists(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	if err := h.Ratings.Upsert(ctx, movieID, uid, req.RatingValue); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save rating"})
	}

	rating, err := h.Ratings.GetForUser(ctx, movieID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	avg, err := h.Ratings.Average(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	go func(ev queue.ActivityEvent) {
		_ = queue_publisher.PublishActivity(context.Background(), ev)
	}(queue.ActivityEvent{
		Kind:        queue.KindRatingSubmitted,
		MovieID:     movieID,
		UserID:      uid,
		Username:    currentUsername(c),
		RatingValue: req.RatingValue,
		OccurredAt:  time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"rating":        rating,
		"averageRating": avg,
	})
}

// GetMine handles GET /v1/movies/:id/rating.
func (h *RatingHandler) GetMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rating, err := h.Ratings.GetForUser(ctx, movieID, uid)
	if err == repository.ErrRatingNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "rating not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rating)
}

// Average handles GET /v1/movies/:id/rating/average (public). A movie with no
// ratings averages 0.0.
func (h *RatingHandler) Average(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Movies.Exists(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}

	avg, err := h.Ratings.Average(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movie_id":       movieID,
		"average_rating": avg,
	})
}

// Delete handles DELETE /v1/movies/:id/rating.
func (h *RatingHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Ratings.Delete(ctx, movieID, uid); err != nil {
		if err == repository.ErrRatingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "rating not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/ratings/mine: the caller's ratings, paginated.
func (h *RatingHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c, 10)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Ratings.ListByUserPage(ctx, uid, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, pageEnvelope("ratings", items, total, page, pageSize))
}
