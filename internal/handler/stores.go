package handler

import (
	"context"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/catalog"
	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/repository"
)

// Narrow views of the repositories, satisfied by the concrete types in
// internal/repository.

type movieStore interface {
	Create(ctx context.Context, m *repository.Movie) error
	GetByID(ctx context.Context, id uint64) (repository.Movie, error)
	CreatorUsername(ctx context.Context, id uint64) (string, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Update(ctx context.Context, id, userID uint64, title, director, genre, description string) error
	Delete(ctx context.Context, id, userID uint64) error
	ListPage(ctx context.Context, page, pageSize int) ([]catalog.MovieSummary, int64, error)
	ListByUserPage(ctx context.Context, userID uint64, page, pageSize int) ([]catalog.MovieSummary, int64, error)
	SearchPage(ctx context.Context, term string, page, pageSize int) ([]catalog.MovieSummary, int64, error)
	AllSummaries(ctx context.Context) ([]catalog.MovieSummary, error)
}

type reviewStore interface {
	Create(ctx context.Context, movieID, userID uint64, text string) (uint64, error)
	GetByID(ctx context.Context, id uint64) (repository.Review, error)
	Update(ctx context.Context, id, userID uint64, text string) error
	Delete(ctx context.Context, id, userID uint64) error
	HasReview(ctx context.Context, movieID, userID uint64) (bool, error)
	ListByMoviePage(ctx context.Context, movieID uint64, page, pageSize int) ([]repository.Review, int64, error)
	ListByUserPage(ctx context.Context, userID uint64, page, pageSize int) ([]repository.Review, int64, error)
}

type ratingStore interface {
	Upsert(ctx context.Context, movieID, userID uint64, value int) error
	GetForUser(ctx context.Context, movieID, userID uint64) (repository.Rating, error)
	Average(ctx context.Context, movieID uint64) (float64, error)
	Delete(ctx context.Context, movieID, userID uint64) error
	ListByUserPage(ctx context.Context, userID uint64, page, pageSize int) ([]repository.Rating, int64, error)
}
