package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/catalog"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/repository"
)

// In-memory stores backing the handler tests. They enforce the same rules the
// schema does: UNIQUE (movie_id, user_id) on reviews and ratings, and
// ownership-scoped update/delete that cannot tell "absent" from "not yours".

type pairKey struct{ movieID, userID uint64 }

type memMovies struct {
	rows map[uint64]repository.Movie
}

func newMemMovies() *memMovies { return &memMovies{rows: map[uint64]repository.Movie{}} }

func (s *memMovies) add(id, createdBy uint64, title string) {
	s.rows[id] = repository.Movie{ID: id, Title: title, Director: "someone", CreatedBy: createdBy, CreatedAt: time.Now()}
}

func (s *memMovies) Create(_ context.Context, m *repository.Movie) error {
	m.ID = uint64(len(s.rows) + 1)
	s.rows[m.ID] = *m
	return nil
}

func (s *memMovies) GetByID(_ context.Context, id uint64) (repository.Movie, error) {
	m, ok := s.rows[id]
	if !ok {
		return repository.Movie{}, repository.ErrMovieNotFound
	}
	return m, nil
}

func (s *memMovies) CreatorUsername(_ context.Context, id uint64) (string, error) {
	if _, ok := s.rows[id]; !ok {
		return "", repository.ErrMovieNotFound
	}
	return "owner", nil
}

func (s *memMovies) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := s.rows[id]
	return ok, nil
}

func (s *memMovies) Update(_ context.Context, id, userID uint64, title, director, genre, description string) error {
	m, ok := s.rows[id]
	if !ok || m.CreatedBy != userID {
		return repository.ErrMovieNotFound
	}
	m.Title, m.Director, m.Genre, m.Description = title, director, genre, description
	s.rows[id] = m
	return nil
}

func (s *memMovies) Delete(_ context.Context, id, userID uint64) error {
	m, ok := s.rows[id]
	if !ok || m.CreatedBy != userID {
		return repository.ErrMovieNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *memMovies) ListPage(context.Context, int, int) ([]catalog.MovieSummary, int64, error) {
	return nil, 0, nil
}

func (s *memMovies) ListByUserPage(context.Context, uint64, int, int) ([]catalog.MovieSummary, int64, error) {
	return nil, 0, nil
}

func (s *memMovies) SearchPage(context.Context, string, int, int) ([]catalog.MovieSummary, int64, error) {
	return nil, 0, nil
}

func (s *memMovies) AllSummaries(context.Context) ([]catalog.MovieSummary, error) { return nil, nil }

type memReviews struct {
	nextID  uint64
	byID    map[uint64]repository.Review
	byOwner map[pairKey]uint64
}

func newMemReviews() *memReviews {
	return &memReviews{nextID: 1, byID: map[uint64]repository.Review{}, byOwner: map[pairKey]uint64{}}
}

func (s *memReviews) Create(_ context.Context, movieID, userID uint64, text string) (uint64, error) {
	k := pairKey{movieID, userID}
	if _, dup := s.byOwner[k]; dup {
		return 0, repository.ErrReviewExists
	}
	id := s.nextID
	s.nextID++
	s.byID[id] = repository.Review{ID: id, MovieID: movieID, UserID: userID, ReviewText: text, CreatedAt: time.Now()}
	s.byOwner[k] = id
	return id, nil
}

func (s *memReviews) GetByID(_ context.Context, id uint64) (repository.Review, error) {
	rev, ok := s.byID[id]
	if !ok {
		return repository.Review{}, repository.ErrReviewNotFound
	}
	return rev, nil
}

func (s *memReviews) Update(_ context.Context, id, userID uint64, text string) error {
	rev, ok := s.byID[id]
	if !ok || rev.UserID != userID {
		return repository.ErrReviewNotFound
	}
	rev.ReviewText = text
	s.byID[id] = rev
	return nil
}

func (s *memReviews) Delete(_ context.Context, id, userID uint64) error {
	rev, ok := s.byID[id]
	if !ok || rev.UserID != userID {
		return repository.ErrReviewNotFound
	}
	delete(s.byID, id)
	delete(s.byOwner, pairKey{rev.MovieID, rev.UserID})
	return nil
}

func (s *memReviews) HasReview(_ context.Context, movieID, userID uint64) (bool, error) {
	_, ok := s.byOwner[pairKey{movieID, userID}]
	return ok, nil
}

func (s *memReviews) ListByMoviePage(context.Context, uint64, int, int) ([]repository.Review, int64, error) {
	return nil, 0, nil
}

func (s *memReviews) ListByUserPage(context.Context, uint64, int, int) ([]repository.Review, int64, error) {
	return nil, 0, nil
}

type memRatings struct {
	values map[pairKey]int
}

func newMemRatings() *memRatings { return &memRatings{values: map[pairKey]int{}} }

func (s *memRatings) Upsert(_ context.Context, movieID, userID uint64, value int) error {
	s.values[pairKey{movieID, userID}] = value
	return nil
}

func (s *memRatings) GetForUser(_ context.Context, movieID, userID uint64) (repository.Rating, error) {
	v, ok := s.values[pairKey{movieID, userID}]
	if !ok {
		return repository.Rating{}, repository.ErrRatingNotFound
	}
	return repository.Rating{MovieID: movieID, UserID: userID, RatingValue: v}, nil
}

func (s *memRatings) Average(_ context.Context, movieID uint64) (float64, error) {
	sum, n := 0, 0
	for k, v := range s.values {
		if k.movieID == movieID {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

func (s *memRatings) Delete(_ context.Context, movieID, userID uint64) error {
	k := pairKey{movieID, userID}
	if _, ok := s.values[k]; !ok {
		return repository.ErrRatingNotFound
	}
	delete(s.values, k)
	return nil
}

func (s *memRatings) ListByUserPage(context.Context, uint64, int, int) ([]repository.Rating, int64, error) {
	return nil, 0, nil
}

// newAuthedContext builds an Echo context for a JSON request with the claims
// the JWT middleware would have set, plus the :id path parameter.
func newAuthedContext(method, body string, userID uint64, movieOrReviewID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(movieOrReviewID)
	c.Set("user_id", float64(userID))
	c.Set("username", "tester")
	return c, rec
}
