package handler

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/middleware"
	"slawn/internal/domain/entity"
	"slawn/pkg/errors"
)

func caller(c echo.Context) (*entity.Principal, error) {
	p := middleware.Principal(c)
	if p == nil {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return p, nil
}
