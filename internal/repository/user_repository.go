package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/utils"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	FirstName    sql.NullString
	LastName     sql.NullString
	CreatedAt    time.Time
}

// ProfileCounts aggregates what a user has contributed to the catalog.
type ProfileCounts struct {
	Movies  int64 `json:"movies"`
	Reviews int64 `json:"reviews"`
	Ratings int64 `json:"ratings"`
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrUsernameExists = errors.New("username already taken")
var ErrEmailExists = errors.New("email already registered")

const userColumns = "id, username, email, password_hash, first_name, last_name, created_at"

// Create inserts a user and returns its ID. Username and email are unique;
// a MySQL duplicate-key error (1062) is mapped to the matching sentinel by
// inspecting which key the message names.
func (r *UserRepo) Create(ctx context.Context, username, email, password, firstName, lastName string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, first_name, last_name) VALUES (?,?,?,?,?)",
		username, email, hash, nullable(firstName), nullable(lastName))
	if err != nil {
		if msg := strings.ToLower(err.Error()); strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by username; login identifies users by name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	return u, err
}

// Counts returns how many movies, reviews and ratings the user owns.
func (r *UserRepo) Counts(ctx context.Context, userID uint64) (ProfileCounts, error) {
	var c ProfileCounts
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM movies  WHERE created_by = ?),
			(SELECT COUNT(*) FROM reviews WHERE user_id = ?),
			(SELECT COUNT(*) FROM ratings WHERE user_id = ?)`,
		userID, userID, userID).Scan(&c.Movies, &c.Reviews, &c.Ratings)
	return c, err
}

// nullable maps "" to NULL for optional columns.
func nullable(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
