package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/authz"
)

const (
	contextTenantKey = "tenant_id"
	contextRoleKey   = "role"
	bearerPrefix     = "Bearer "
)

var errMissingTenant = errors.New("tenant is missing from request context")

// Claims is the JWT payload issued to API clients.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for tenantID with role.
func IssueToken(secret string, tenantID kernel.UUID, role string, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("jwt secret is empty")
	}
	if err := tenantID.Validate(); err != nil {
		return "", err
	}
	if !authz.IsKnownRole(role) {
		return "", errors.New("unknown role " + role)
	}

	claims := Claims{
		TenantID: tenantID.String(),
		Role:     strings.ToLower(strings.TrimSpace(role)),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	return claims, nil
}

// Authenticate requires a valid bearer token and stores its tenant and role
// in the echo context.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := parseToken(secret, strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}
			tenantID, err := kernel.UUIDFromString(claims.TenantID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid tenant claim").SetInternal(err)
			}

			c.Set(contextTenantKey, tenantID)
			c.Set(contextRoleKey, claims.Role)
			return next(c)
		}
	}
}

// Authorize checks the caller's role against the route policies.
func Authorize(svc *authz.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(contextRoleKey).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing role")
			}
			allowed, err := svc.Enforce(role, c.Request().URL.Path, c.Request().Method)
			if err != nil {
				return err
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func tenantFrom(c echo.Context) (kernel.UUID, error) {
	tenantID, ok := c.Get(contextTenantKey).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, errMissingTenant
	}
	return tenantID, nil
}
