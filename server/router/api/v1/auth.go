package v1

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	apierrors "github.com/grindlist/grindlist/server/internal/errors"
)

const (
	userIDContextKey = "user-id"

	// AccessTokenDuration is the lifetime of an issued access token.
	AccessTokenDuration = 7 * 24 * time.Hour

	issuer = "grindlist"
)

// AuthMiddleware resolves the caller to a user id from a Bearer access token.
// Requests without a resolvable caller fail with 401.
func (s *APIV1Service) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return s.respondError(c, apierrors.Unauthorized("missing access token"))
		}

		userID, err := verifyAccessToken(token, s.Secret)
		if err != nil {
			return s.respondError(c, apierrors.Unauthorized("invalid access token"))
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

// userIDFromContext returns the authenticated user id set by AuthMiddleware.
func userIDFromContext(c echo.Context) (string, error) {
	userID, ok := c.Get(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", apierrors.Unauthorized("no authenticated user in context")
	}
	return userID, nil
}

// GenerateAccessToken issues a signed access token for the given user.
func GenerateAccessToken(userID, secret string, expiresAt time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

func verifyAccessToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", errors.Wrap(err, "failed to parse access token")
	}
	if !token.Valid {
		return "", errors.New("invalid access token")
	}
	if claims.Subject == "" {
		return "", errors.New("access token has no subject")
	}
	return claims.Subject, nil
}
