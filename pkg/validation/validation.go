package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"slawn/pkg/errors"
)

var (
	// Deliberately loose: something, an @, something, a dot, something.
	looseEmailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	dialCodeRegex   = regexp.MustCompile(`^\+\d{1,4}(\s+|$)`)

	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared instance with the custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
			return looseEmailRegex.MatchString(strings.TrimSpace(fl.Field().String()))
		})
		v.RegisterValidation("phonenumber", func(fl validator.FieldLevel) bool {
			return IsPhoneNumber(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// IsPhoneNumber accepts anything left once an optional "+<dial code> " prefix is removed.
func IsPhoneNumber(s string) bool {
	rest := dialCodeRegex.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(rest) != ""
}

// Struct validates v and reports every failing field in one AppError.
func Struct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.BadRequest("Invalid input", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return errors.Validation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "looseemail", "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "phonenumber":
		return fmt.Sprintf("%s must be a valid phone number", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
