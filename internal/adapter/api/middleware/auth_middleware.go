package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"slawn/internal/domain/entity"
)

const principalKey = "principal"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*entity.Principal, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is required")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		return m.verify(c, next, parts[1])
	}
}

// AuthenticateStream accepts the token as a query parameter as well, since
// browsers cannot set headers on a websocket handshake.
func (m *AuthMiddleware) AuthenticateStream(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token := c.QueryParam("token"); token != "" {
			return m.verify(c, next, token)
		}
		return m.Authenticate(next)(c)
	}
}

func (m *AuthMiddleware) verify(c echo.Context, next echo.HandlerFunc, token string) error {
	principal, err := m.verifier.VerifyToken(c.Request().Context(), token)
	if err != nil || principal == nil || principal.ID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	c.Set(principalKey, principal)
	c.Set("uid", principal.ID)

	return next(c)
}

// Principal returns the caller set by Authenticate, or nil.
func Principal(c echo.Context) *entity.Principal {
	p, _ := c.Get(principalKey).(*entity.Principal)
	return p
}

// SetPrincipal is used by tests and by trusted internal callers.
func SetPrincipal(c echo.Context, p *entity.Principal) {
	c.Set(principalKey, p)
	c.Set("uid", p.ID)
}
