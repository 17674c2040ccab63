package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// GetLimit reads the "limit" query parameter, clamped to (0, MaxLimit].
func GetLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return limit
}
