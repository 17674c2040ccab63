package api

import (
	"github.com/labstack/echo/v4"

	"slawn/pkg/validation"
)

type CustomValidator struct{}

func NewValidator() echo.Validator {
	return &CustomValidator{}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return validation.Struct(i)
}
