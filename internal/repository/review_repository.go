package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Review is a review row joined with its author, its movie's title and the
// author's rating of that movie (nil when the author never rated it).
type Review struct {
	ID          uint64    `json:"id"`
	MovieID     uint64    `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	UserID      uint64    `json:"user_id"`
	Username    string    `json:"username"`
	ReviewText  string    `json:"review_text"`
	RatingValue *int      `json:"rating_value,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReviewRepo struct{ DB *sql.DB }

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// reviewSelect joins the author and movie and pulls the author's rating of the
// same movie through a correlated subquery, avoiding any object-graph cycle.
const reviewSelect = `
	SELECT
		v.id,
		v.movie_id,
		m.title,
		v.user_id,
		u.username,
		v.review_text,
		(SELECT r.rating_value FROM ratings r WHERE r.movie_id = v.movie_id AND r.user_id = v.user_id) AS rating_value,
		v.created_at
	FROM reviews v
	JOIN users u ON u.id = v.user_id
	JOIN movies m ON m.id = v.movie_id`

// Create inserts a review and returns its ID. The UNIQUE (movie_id, user_id)
// key turns a duplicate into ErrReviewExists.
func (r *ReviewRepo) Create(ctx context.Context, movieID, userID uint64, text string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reviews (movie_id, user_id, review_text, created_at) VALUES (?,?,?,?)",
		movieID, userID, text, time.Now().UTC())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrReviewExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// HasReview reports whether the user already reviewed the movie. The negation
// is the "can user review" check.
func (r *ReviewRepo) HasReview(ctx context.Context, movieID, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM reviews WHERE movie_id=? AND user_id=? LIMIT 1",
		movieID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID fetches one review with its joined fields.
func (r *ReviewRepo) GetByID(ctx context.Context, id uint64) (Review, error) {
	row := r.DB.QueryRowContext(ctx, reviewSelect+" WHERE v.id=? LIMIT 1", id)
	rev, err := scanReview(row)
	if err == sql.ErrNoRows {
		return Review{}, ErrReviewNotFound
	}
	return rev, err
}

// Update replaces the text of the caller's own review. Absent and not-owned
// both yield ErrReviewNotFound.
func (r *ReviewRepo) Update(ctx context.Context, id, userID uint64, text string) error {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM reviews WHERE id=? AND user_id=? LIMIT 1", id, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE reviews SET review_text=? WHERE id=? AND user_id=?", text, id, userID)
	return err
}

// Delete removes the caller's own review.
func (r *ReviewRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM reviews WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListByMoviePage returns one page of a movie's reviews, newest first, with
// the total count.
func (r *ReviewRepo) ListByMoviePage(ctx context.Context, movieID uint64, page, pageSize int) ([]Review, int64, error) {
	return r.page(ctx, "v.movie_id = ?", movieID, page, pageSize)
}

// ListByUserPage returns one page of a user's reviews, newest first.
func (r *ReviewRepo) ListByUserPage(ctx context.Context, userID uint64, page, pageSize int) ([]Review, int64, error) {
	return r.page(ctx, "v.user_id = ?", userID, page, pageSize)
}

func (r *ReviewRepo) page(ctx context.Context, cond string, arg any, page, pageSize int) ([]Review, int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews v WHERE "+cond, arg).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := pageSize
	offset := (page - 1) * pageSize
	rows, err := r.DB.QueryContext(ctx,
		reviewSelect+" WHERE "+cond+" ORDER BY v.created_at DESC LIMIT ? OFFSET ?",
		arg, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]Review, 0, limit)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(s rowScanner) (Review, error) {
	var rev Review
	var rating sql.NullInt64
	err := s.Scan(
		&rev.ID,
		&rev.MovieID,
		&rev.MovieTitle,
		&rev.UserID,
		&rev.Username,
		&rev.ReviewText,
		&rating,
		&rev.CreatedAt,
	)
	if err != nil {
		return Review{}, err
	}
	if rating.Valid {
		v := int(rating.Int64)
		rev.RatingValue = &v
	}
	return rev, nil
}
