package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/catalog"
)

// Movie mirrors the 'movies' table. Genre and Description are optional.
type Movie struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	Genre       string    `json:"genre,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type MovieRepo struct{ DB *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{DB: db} }

// summarySelect computes the derived fields (average rating, review count) at
// read time via correlated subqueries, so they can never go stale.
const summarySelect = `
	SELECT
		m.id,
		m.title,
		m.director,
		COALESCE(m.genre, '') AS genre,
		COALESCE((SELECT AVG(r.rating_value) FROM ratings r WHERE r.movie_id = m.id), 0) AS average_rating,
		(SELECT COUNT(*) FROM reviews v WHERE v.movie_id = m.id) AS review_count,
		m.created_by,
		u.username,
		m.created_at
	FROM movies m
	JOIN users u ON u.id = m.created_by`

// Create inserts a movie and fills in its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	m.CreatedAt = time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO movies (title, director, genre, description, created_by, created_at) VALUES (?,?,?,?,?,?)",
		m.Title, m.Director, nullable(m.Genre), nullable(m.Description), m.CreatedBy, m.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a movie row without ownership filtering.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (Movie, error) {
	var m Movie
	var genre, descr sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, title, director, genre, description, created_by, created_at FROM movies WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Title, &m.Director, &genre, &descr, &m.CreatedBy, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return Movie{}, err
	}
	m.Genre = genre.String
	m.Description = descr.String
	return m, nil
}

// CreatorUsername resolves the username of a movie's creator.
func (r *MovieRepo) CreatorUsername(ctx context.Context, id uint64) (string, error) {
	var name string
	err := r.DB.QueryRowContext(ctx,
		"SELECT u.username FROM movies m JOIN users u ON u.id = m.created_by WHERE m.id=? LIMIT 1",
		id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", ErrMovieNotFound
	}
	return name, err
}

// Exists reports whether a movie row exists.
func (r *MovieRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM movies WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update rewrites a movie's fields when the caller is its creator. A movie
// that is absent or owned by someone else yields ErrMovieNotFound either way.
func (r *MovieRepo) Update(ctx context.Context, id, userID uint64, title, director, genre, description string) error {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM movies WHERE id=? AND created_by=? LIMIT 1", id, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return ErrMovieNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE movies SET title=?, director=?, genre=?, description=? WHERE id=? AND created_by=?",
		title, director, nullable(genre), nullable(description), id, userID)
	return err
}

// Delete removes a movie owned by the caller. Reviews and ratings go with it
// through the ON DELETE CASCADE foreign keys.
func (r *MovieRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM movies WHERE id=? AND created_by=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// ListPage returns one page of movie summaries, newest first, plus the total
// movie count.
func (r *MovieRepo) ListPage(ctx context.Context, page, pageSize int) ([]catalog.MovieSummary, int64, error) {
	return r.summaryPage(ctx, "", nil, page, pageSize)
}

// ListByUserPage is ListPage restricted to movies created by one user.
func (r *MovieRepo) ListByUserPage(ctx context.Context, userID uint64, page, pageSize int) ([]catalog.MovieSummary, int64, error) {
	return r.summaryPage(ctx, "m.created_by = ?", []any{userID}, page, pageSize)
}

// SearchPage matches the term against title, director or genre, all
// case-insensitive substring matches, newest first.
func (r *MovieRepo) SearchPage(ctx context.Context, term string, page, pageSize int) ([]catalog.MovieSummary, int64, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return r.summaryPage(ctx, "", nil, page, pageSize)
	}
	like := "%" + term + "%"
	cond := "(LOWER(m.title) LIKE ? OR LOWER(m.director) LIKE ? OR LOWER(COALESCE(m.genre,'')) LIKE ?)"
	return r.summaryPage(ctx, cond, []any{like, like, like}, page, pageSize)
}

// AllSummaries loads the whole catalog with aggregates for the grid endpoint;
// filtering, sorting and slicing happen in the catalog package because the
// sort keys include derived fields.
func (r *MovieRepo) AllSummaries(ctx context.Context) ([]catalog.MovieSummary, error) {
	rows, err := r.DB.QueryContext(ctx, summarySelect+" ORDER BY m.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows, 64)
}

func (r *MovieRepo) summaryPage(ctx context.Context, cond string, args []any, page, pageSize int) ([]catalog.MovieSummary, int64, error) {
	where := ""
	if cond != "" {
		where = " WHERE " + cond
	}

	var total int64
	countSQL := "SELECT COUNT(*) FROM movies m" + where
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := pageSize
	offset := (page - 1) * pageSize
	dataSQL := summarySelect + where + " ORDER BY m.created_at DESC LIMIT ? OFFSET ?"
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanSummaries(rows, limit)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanSummaries(rows *sql.Rows, capHint int) ([]catalog.MovieSummary, error) {
	out := make([]catalog.MovieSummary, 0, capHint)
	for rows.Next() {
		var s catalog.MovieSummary
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Director,
			&s.Genre,
			&s.AverageRating,
			&s.ReviewCount,
			&s.CreatedBy,
			&s.CreatedByName,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
