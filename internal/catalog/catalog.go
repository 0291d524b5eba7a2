// Package catalog implements the aggregation and query logic for the movie
// catalog: average ratings, free-text and genre filtering, sorting on stored
// and derived fields, and pagination math shared by every listed collection.
package catalog

import (
	"sort"
	"strings"
	"time"
)

// MovieSummary is one row of the browsable catalog. AverageRating and
// ReviewCount are derived from the movie's ratings and reviews, never stored.
type MovieSummary struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Director      string    `json:"director"`
	Genre         string    `json:"genre,omitempty"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedBy     uint64    `json:"created_by"`
	CreatedByName string    `json:"created_by_username"`
	CreatedAt     time.Time `json:"created_at"`
}

// AverageRating returns the arithmetic mean of the rating values, or 0.0 for
// an empty set. No rounding is applied.
func AverageRating(values []int) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// FilterMovies applies the free-text search and the genre filter, both
// case-insensitive substring matches. The search term matches title or
// director. A genre of "" or "all" means no genre filtering. Both filters are
// conjunctive when supplied.
func FilterMovies(movies []MovieSummary, search, genre string) []MovieSummary {
	search = strings.ToLower(strings.TrimSpace(search))
	genre = strings.ToLower(strings.TrimSpace(genre))
	if genre == "all" {
		genre = ""
	}
	if search == "" && genre == "" {
		return movies
	}
	out := make([]MovieSummary, 0, len(movies))
	for _, m := range movies {
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Title), search) &&
			!strings.Contains(strings.ToLower(m.Director), search) {
			continue
		}
		if genre != "" && !strings.Contains(strings.ToLower(m.Genre), genre) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SortMovies orders movies by sortBy (title, director, genre, averagerating,
// reviewcount, createddate; unknown keys fall back to createddate) in the
// given sortOrder ("asc", anything else descending). Keys are matched
// case-insensitively. The sort is stable, so ties keep their incoming order.
func SortMovies(movies []MovieSummary, sortBy, sortOrder string) []MovieSummary {
	var less func(a, b MovieSummary) bool
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "title":
		less = func(a, b MovieSummary) bool { return a.Title < b.Title }
	case "director":
		less = func(a, b MovieSummary) bool { return a.Director < b.Director }
	case "genre":
		// a missing genre sorts as the empty string
		less = func(a, b MovieSummary) bool { return a.Genre < b.Genre }
	case "averagerating":
		less = func(a, b MovieSummary) bool { return a.AverageRating < b.AverageRating }
	case "reviewcount":
		less = func(a, b MovieSummary) bool { return a.ReviewCount < b.ReviewCount }
	default: // "createddate" and anything unrecognized
		less = func(a, b MovieSummary) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
	asc := strings.EqualFold(strings.TrimSpace(sortOrder), "asc")
	sort.SliceStable(movies, func(i, j int) bool {
		if asc {
			return less(movies[i], movies[j])
		}
		return less(movies[j], movies[i])
	})
	return movies
}

// Paginate returns the 1-based page of items: the slice starting at offset
// (page-1)*pageSize, at most pageSize long. Pages beyond the end yield an
// empty slice, not an error. pageSize must be validated upstream.
func Paginate[T any](items []T, page, pageSize int) []T {
	offset := (page - 1) * pageSize
	if offset >= len(items) || offset < 0 {
		return []T{}
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// TotalPages is the ceiling of totalCount/pageSize.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}
