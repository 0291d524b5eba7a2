package handler

import (
	"encoding/json"
	"net/http"
	"testing"
)

func newRatingFixture() (*RatingHandler, *memMovies, *memRatings) {
	movies := newMemMovies()
	ratings := newMemRatings()
	return NewRatingHandler(ratings, movies), movies, ratings
}

func TestRatingUpsertOverwritesPrevious(t *testing.T) {
	h, movies, ratings := newRatingFixture()
	movies.add(1, 2, "Alien")

	c, rec := newAuthedContext(http.MethodPut, `{"rating_value":2}`, 7, "1")
	if err := h.Upsert(c); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("first upsert status = %d, want 200", rec.Code)
	}

	c, rec = newAuthedContext(http.MethodPut, `{"rating_value":5}`, 7, "1")
	if err := h.Upsert(c); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("second upsert status = %d, want 200", rec.Code)
	}

	var resp struct {
		Rating struct {
			RatingValue int `json:"rating_value"`
		} `json:"rating"`
		AverageRating float64 `json:"averageRating"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Rating.RatingValue != 5 {
		t.Fatalf("stored value = %d, want 5", resp.Rating.RatingValue)
	}
	// one row per (movie, user): the average reflects only the latest value
	if resp.AverageRating != 5.0 {
		t.Fatalf("average = %v, want 5.0", resp.AverageRating)
	}
	if len(ratings.values) != 1 {
		t.Fatalf("rating rows = %d, want 1", len(ratings.values))
	}

	// a second user's rating widens the average
	c, rec = newAuthedContext(http.MethodPut, `{"rating_value":3}`, 8, "1")
	if err := h.Upsert(c); err != nil {
		t.Fatalf("other user upsert: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AverageRating != 4.0 {
		t.Fatalf("average = %v, want 4.0", resp.AverageRating)
	}
}

func TestRatingUpsertValidation(t *testing.T) {
	h, movies, _ := newRatingFixture()
	movies.add(1, 2, "Alien")

	for _, body := range []string{`{"rating_value":0}`, `{"rating_value":6}`, `{"rating_value":-1}`} {
		c, rec := newAuthedContext(http.MethodPut, body, 7, "1")
		if err := h.Upsert(c); err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestRatingUpsertMissingMovie(t *testing.T) {
	h, _, _ := newRatingFixture()
	c, rec := newAuthedContext(http.MethodPut, `{"rating_value":4}`, 7, "99")
	if err := h.Upsert(c); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRatingGetAndDeleteWithoutRating(t *testing.T) {
	h, movies, _ := newRatingFixture()
	movies.add(1, 2, "Alien")

	c, rec := newAuthedContext(http.MethodGet, "", 7, "1")
	if err := h.GetMine(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get status = %d, want 404", rec.Code)
	}

	c, rec = newAuthedContext(http.MethodDelete, "", 7, "1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete status = %d, want 404", rec.Code)
	}
}
