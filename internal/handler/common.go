// Package handler defines the HTTP handlers of the movie review API.
package handler

import (
	"errors"
	"strconv"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/AmitKshirsagar999/ReviewApp-updated/internal/catalog"
)

// getUserID extracts the authenticated user's id from the Echo context. The
// JWT middleware stores the sub claim, which the token library decodes as
// float64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentUsername returns the username claim, empty when absent.
func currentUsername(c echo.Context) string {
	if s, ok := c.Get("username").(string); ok {
		return s
	}
	return ""
}

// pageParams reads ?page and ?pageSize, clamping both to valid values so the
// query layer never sees page < 1 or pageSize < 1.
func pageParams(c echo.Context, defaultSize int) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// pageEnvelope is the response shape shared by every paginated list. itemsKey
// names the collection ("movies", "reviews", "ratings").
func pageEnvelope(itemsKey string, items any, totalCount int64, page, pageSize int) echo.Map {
	return echo.Map{
		itemsKey:      items,
		"totalCount":  totalCount,
		"currentPage": page,
		"pageSize":    pageSize,
		"totalPages":  catalog.TotalPages(int(totalCount), pageSize),
	}
}

// validatePassword enforces the registration password rule: at least six
// characters with a digit, a lowercase and an uppercase letter.
func validatePassword(pw string) error {
	if len(pw) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range pw {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	if !hasDigit || !hasLower || !hasUpper {
		return errors.New("password must contain a digit, a lowercase and an uppercase letter")
	}
	return nil
}
