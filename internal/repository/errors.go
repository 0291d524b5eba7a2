// Package repository implements data access for users, movies, reviews and
// ratings on top of database/sql. Sentinel errors let handlers distinguish
// failure cases: not-found sentinels cover both "row absent" and "row not
// owned by the caller", since ownership-scoped queries make the two
// indistinguishable on purpose.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie does not exist, or exists but the
// caller is not its creator on a mutating operation.
var ErrMovieNotFound = errors.New("movie not found")

// ErrReviewNotFound mirrors ErrMovieNotFound for reviews.
var ErrReviewNotFound = errors.New("review not found")

// ErrRatingNotFound is returned when the caller has no rating for a movie.
var ErrRatingNotFound = errors.New("rating not found")

// ErrReviewExists is returned when a user already reviewed a movie; the
// (movie, user) pair is unique.
var ErrReviewExists = errors.New("review already exists")
