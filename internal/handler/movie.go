package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/catalog"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/repository"
)

// MovieHandler serves the movie catalog: browse, grid, search, detail and the
// creator-only mutations.
type MovieHandler struct {
	Movies  movieStore
	Reviews reviewStore
	Ratings ratingStore
}

func NewMovieHandler(movies movieStore, reviews reviewStore, ratings ratingStore) *MovieHandler {
	if movies == nil || reviews == nil || ratings == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Reviews: reviews, Ratings: ratings}
}

type movieReq struct {
	Title       string `json:"title"`
	Director    string `json:"director"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// validate trims the fields and checks the presence/length invariants. Limits
// count runes, matching the VARCHAR column widths.
func (r *movieReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Director = strings.TrimSpace(r.Director)
	r.Genre = strings.TrimSpace(r.Genre)
	r.Description = strings.TrimSpace(r.Description)
	switch {
	case r.Title == "":
		return "title is required"
	case utf8.RuneCountInString(r.Title) > 200:
		return "title must be at most 200 characters"
	case r.Director == "":
		return "director is required"
	case utf8.RuneCountInString(r.Director) > 100:
		return "director must be at most 100 characters"
	case utf8.RuneCountInString(r.Genre) > 50:
		return "genre must be at most 50 characters"
	case utf8.RuneCountInString(r.Description) > 1000:
		return "description must be at most 1000 characters"
	}
	return ""
}

// gridQuery holds the browse-grid parameters after normalization.
type gridQuery struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	Search    string
	Genre     string
}

// buildGridQuery normalizes the grid query string. Unknown sort keys and
// orders are passed through; the catalog layer applies its own defaults so
// the two stay in one place.
func buildGridQuery(c echo.Context) gridQuery {
	q := gridQuery{
		SortBy:    strings.TrimSpace(c.QueryParam("sortBy")),
		SortOrder: strings.TrimSpace(c.QueryParam("sortOrder")),
		Search:    strings.TrimSpace(c.QueryParam("search")),
		Genre:     strings.TrimSpace(c.QueryParam("genre")),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	if q.PageSize > 100 {
		q.PageSize = 100
	}
	return q
}

// movieDetail is the full movie payload: stored fields, derived aggregates
// and the movie's reviews.
type movieDetail struct {
	repository.Movie
	CreatedByName string              `json:"created_by_username"`
	AverageRating float64             `json:"average_rating"`
	ReviewCount   int64               `json:"review_count"`
	Reviews       []repository.Review `json:"reviews"`
}

// List handles GET /v1/movies: the plain catalog page, newest first.
func (h *MovieHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c, 10)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Movies.ListPage(ctx, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, pageEnvelope("movies", items, total, page, pageSize))
}

// Grid handles GET /v1/movies/grid: filter, sort (including on the derived
// average rating and review count) and paginate the whole catalog.
func (h *MovieHandler) Grid(c echo.Context) error {
	q := buildGridQuery(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	all, err := h.Movies.AllSummaries(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	filtered := catalog.FilterMovies(all, q.Search, q.Genre)
	sorted := catalog.SortMovies(filtered, q.SortBy, q.SortOrder)
	total := int64(len(sorted))
	items := catalog.Paginate(sorted, q.Page, q.PageSize)

	return c.JSON(http.StatusOK, pageEnvelope("movies", items, total, q.Page, q.PageSize))
}

// Search handles GET /v1/movies/search: one term matched against title,
// director or genre.
func (h *MovieHandler) Search(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		term = c.QueryParam("title")
	}
	page, pageSize := pageParams(c, 10)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Movies.SearchPage(ctx, term, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, pageEnvelope("movies", items, total, page, pageSize))
}

// Get handles GET /v1/movies/:id — the movie with aggregates and reviews.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	detail, err := h.loadDetail(ctx, id)
	if err == repository.ErrMovieNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &repository.Movie{
		Title:       req.Title,
		Director:    req.Director,
		Genre:       req.Genre,
		Description: req.Description,
		CreatedBy:   uid,
	}
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
	}

	detail, err := h.loadDetail(ctx, m.ID)
	if err != nil {
		return c.JSON(http.StatusCreated, m)
	}
	return c.JSON(http.StatusCreated, detail)
}

// Update handles PUT /v1/movies/:id. Only the creator may update; absent and
// not-owned both answer 404.
func (h *MovieHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Update(ctx, id, uid, req.Title, req.Director, req.Genre, req.Description); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	detail, err := h.loadDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// Delete handles DELETE /v1/movies/:id. Reviews and ratings cascade away with
// the movie.
func (h *MovieHandler) Delete(c echo.Context) error {
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

	if err := h.Movies.Delete(ctx, id, uid); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Mine handles GET /v1/movies/mine: the caller's own movies, paginated.
func (h *MovieHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, pageSize := pageParams(c, 10)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Movies.ListByUserPage(ctx, uid, page, pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, pageEnvelope("movies", items, total, page, pageSize))
}

// loadDetail assembles the movie payload from the row, its derived aggregates
// and its reviews.
func (h *MovieHandler) loadDetail(ctx context.Context, id uint64) (movieDetail, error) {
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return movieDetail{}, err
	}
	avg, err := h.Ratings.Average(ctx, id)
	if err != nil {
		return movieDetail{}, err
	}
	reviews, total, err := h.Reviews.ListByMoviePage(ctx, id, 1, 100)
	if err != nil {
		return movieDetail{}, err
	}
	creator, err := h.Movies.CreatorUsername(ctx, id)
	if err != nil {
		return movieDetail{}, err
	}
	return movieDetail{
		Movie:         m,
		CreatedByName: creator,
		AverageRating: avg,
		ReviewCount:   total,
		Reviews:       reviews,
	}, nil
}
