package repository

import (
	"context"
	"database/sql"
	"time"
)

// Rating is a rating row joined with its author and its movie's title.
type Rating struct {
	ID          uint64    `json:"id"`
	MovieID     uint64    `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	UserID      uint64    `json:"user_id"`
	Username    string    `json:"username"`
	RatingValue int       `json:"rating_value"`
	CreatedAt   time.Time `json:"created_at"`
}

type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

const ratingSelect = `
	SELECT r.id, r.movie_id, m.title, r.user_id, u.username, r.rating_value, r.created_at
	FROM ratings r
	JOIN users u ON u.id = r.user_id
	JOIN movies m ON m.id = r.movie_id`

// Upsert creates the user's rating for a movie or overwrites value and
// timestamp of the existing one. The UNIQUE (movie_id, user_id) key makes the
// statement atomic, so a concurrent pair of calls resolves to last-writer-wins
// instead of a constraint violation.
func (r *RatingRepo) Upsert(ctx context.Context, movieID, userID uint64, value int) error {
	now := time.Now().UTC()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO ratings (movie_id, user_id, rating_value, created_at)
		VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE rating_value=?, created_at=?`,
		movieID, userID, value, now, value, now)
	return err
}

// GetForUser fetches the user's rating of a movie.
func (r *RatingRepo) GetForUser(ctx context.Context, movieID, userID uint64) (Rating, error) {
	var rt Rating
	err := r.DB.QueryRowContext(ctx,
		ratingSelect+" WHERE r.movie_id=? AND r.user_id=? LIMIT 1",
		movieID, userID).
		Scan(&rt.ID, &rt.MovieID, &rt.MovieTitle, &rt.UserID, &rt.Username, &rt.RatingValue, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return Rating{}, ErrRatingNotFound
	}
	return rt, err
}

// Average returns the mean rating of a movie, 0.0 when it has none.
func (r *RatingRepo) Average(ctx context.Context, movieID uint64) (float64, error) {
	var avg float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(rating_value), 0) FROM ratings WHERE movie_id=?",
		movieID).Scan(&avg)
	return avg, err
}

// Delete removes the user's rating of a movie.
func (r *RatingRepo) Delete(ctx context.Context, movieID, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM ratings WHERE movie_id=? AND user_id=?", movieID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRatingNotFound
	}
	return nil
}

// ListByUserPage returns one page of a user's ratings, newest first, with the
// total count.
func (r *RatingRepo) ListByUserPage(ctx context.Context, userID uint64, page, pageSize int) ([]Rating, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ratings WHERE user_id=?", userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := pageSize
	offset := (page - 1) * pageSize
	rows, err := r.DB.QueryContext(ctx,
		ratingSelect+" WHERE r.user_id=? ORDER BY r.created_at DESC LIMIT ? OFFSET ?",
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Rating, 0, limit)
	for rows.Next() {
		var rt Rating
		if err := rows.Scan(&rt.ID, &rt.MovieID, &rt.MovieTitle, &rt.UserID, &rt.Username, &rt.RatingValue, &rt.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
