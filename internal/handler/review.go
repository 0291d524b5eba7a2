package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/queue"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/repository"
	queue_publisher "github.com/AmitKshirsagar999/ReviewApp-updated/internal/service"
)

// ReviewHandler serves review reads and the author-only mutations. At most
// one review per (author, movie) pair exists.
type ReviewHandler struct {
	Reviews reviewStore
	Movies  movieStore
}

func NewReviewHandler(reviews reviewStore, movies movieStore) *ReviewHandler {
	if reviews == nil || movies == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Movies: movies}
}

type reviewReq struct {
	ReviewText string `json:"review_text"`
}

func (r *reviewReq) validate() string {
	r.ReviewText = strings.TrimSpace(r.ReviewText)
	if r.ReviewText == "" {
		return "review_text is required"
	}
	if utf8.RuneCountInString(r.ReviewText) > 2000 {
		return "review_text must be at most 2000 characters"
	}
	return ""
}

// Get handles GET /v1/reviews/:id.
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rev, err := h.Reviews.GetByID(ctx, id)
	if err == repository.ErrReviewNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rev)
}

// ListByMovie handles GET /v1/movies/:id/reviews, newest first.
func (h *ReviewHandler) ListByMovie(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	page, pageSize := pageParams(c, 5)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Reviews.ListByMoviePage(ctx, movieID, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, pageEnvelope("reviews", items, total, page, pageSize))
}

// Create handles POST /v1/movies/:id/reviews. The movie must exist (404) and
// the caller must not have reviewed it yet (409).
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
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

	id, err := h.Reviews.Create(ctx, movieID, uid, req.ReviewText)
	if err != nil {
		if err == repository.ErrReviewExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "you have already reviewed this movie"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create review"})
	}

	rev, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	// fire-and-forget; a broker outage must not fail the request
	go func(ev queue.ActivityEvent) {
		_ = queue_publisher.PublishActivity(context.Background(), ev)
	}(queue.ActivityEvent{
		Kind:       queue.KindReviewPosted,
		MovieID:    rev.MovieID,
		MovieTitle: rev.MovieTitle,
		UserID:     uid,
		Username:   rev.Username,
		ReviewID:   rev.ID,
		OccurredAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	return c.JSON(http.StatusCreated, rev)
}

// Update handles PUT /v1/reviews/:id; only the author may update.
func (h *ReviewHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.Update(ctx, id, uid, req.ReviewText); err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	rev, err := h.Reviews.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, rev)
}

// Delete handles DELETE /v1/reviews/:id; only the author may delete.
func (h *ReviewHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id, uid); err != nil {
		if err == repository.ErrReviewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Mine handles GET /v1/reviews/mine: the caller's reviews, paginated.
func (h *ReviewHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c, 5)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Reviews.ListByUserPage(ctx, uid, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, pageEnvelope("reviews", items, total, page, pageSize))
}

// CanReview handles GET /v1/movies/:id/can-review. True iff the caller has no
// review for the movie yet; the client uses it to decide whether to show the
// review form.
func (h *ReviewHandler) CanReview(c echo.Context) error {
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

	has, err := h.Reviews.HasReview(ctx, movieID, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"canReview": !has})
}
