package handler

import (
	"net/http"
	"testing"
)

func newReviewFixture() (*ReviewHandler, *memMovies, *memReviews) {
	movies := newMemMovies()
	reviews := newMemReviews()
	return NewReviewHandler(reviews, movies), movies, reviews
}

func TestReviewCreateSecondReviewConflicts(t *testing.T) {
	h, movies, _ := newReviewFixture()
	movies.add(1, 2, "Alien")

	c, rec := newAuthedContext(http.MethodPost, `{"review_text":"great"}`, 7, "1")
	if err := h.Create(c); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create status = %d, want 201", rec.Code)
	}

	c, rec = newAuthedContext(http.MethodPost, `{"review_text":"changed my mind"}`, 7, "1")
	if err := h.Create(c); err != nil {
		t.Fatalf("second create: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("second create status = %d, want 409", rec.Code)
	}

	// a different user can still review the same movie
	c, rec = newAuthedContext(http.MethodPost, `{"review_text":"meh"}`, 8, "1")
	if err := h.Create(c); err != nil {
		t.Fatalf("other user create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("other user status = %d, want 201", rec.Code)
	}
}

func TestReviewCreateMissingMovie(t *testing.T) {
	h, _, _ := newReviewFixture()
	c, rec := newAuthedContext(http.MethodPost, `{"review_text":"great"}`, 7, "99")
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestReviewUpdateDeleteByNonAuthor(t *testing.T) {
	h, movies, reviews := newReviewFixture()
	movies.add(1, 2, "Alien")
	id, err := reviews.Create(nil, 1, 7, "mine")
	if err != nil {
		t.Fatalf("seed review: %v", err)
	}

	c, rec := newAuthedContext(http.MethodPut, `{"review_text":"hijacked"}`, 8, "1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("non-author update status = %d, want 404", rec.Code)
	}

	c, rec = newAuthedContext(http.MethodDelete, "", 8, "1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("non-author delete status = %d, want 404", rec.Code)
	}
	if _, err := reviews.GetByID(nil, id); err != nil {
		t.Fatalf("review should have survived: %v", err)
	}

	// the author still can
	c, rec = newAuthedContext(http.MethodDelete, "", 7, "1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("author delete status = %d, want 204", rec.Code)
	}
}

func TestCanReviewFlipsAfterReviewing(t *testing.T) {
	h, movies, reviews := newReviewFixture()
	movies.add(1, 2, "Alien")

	c, rec := newAuthedContext(http.MethodGet, "", 7, "1")
	if err := h.CanReview(c); err != nil {
		t.Fatalf("can-review: %v", err)
	}
	if got := rec.Body.String(); got != "{\"canReview\":true}\n" {
		t.Fatalf("before reviewing: %q", got)
	}

	if _, err := reviews.Create(nil, 1, 7, "great"); err != nil {
		t.Fatalf("seed review: %v", err)
	}
	c, rec = newAuthedContext(http.MethodGet, "", 7, "1")
	if err := h.CanReview(c); err != nil {
		t.Fatalf("can-review: %v", err)
	}
	if got := rec.Body.String(); got != "{\"canReview\":false}\n" {
		t.Fatalf("after reviewing: %q", got)
	}
}
