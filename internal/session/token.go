package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/printforge/storefront/internal/common"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
)

// IssueToken signs a time-bound HS256 session token for an administrator
// identity. Validity is proven by signature and expiry alone; no session row
// is written anywhere.
func IssueToken(
	c context.Context,
	email string,
	secret string,
	ttl time.Duration,
) (string, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "session IssueToken").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "creating session token").Logger()
	logger.Info().Msg("creating session token")
	now := time.Now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{common.AudienceAdmin},
			Issuer:    common.AppAdminService,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	)
	logger.Info().Msg("created session token")

	logger = logger.With().Str(log.KeyProcess, "signing session token").Logger()
	logger.Info().Msg("signing session token")
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		err = fmt.Errorf("failed signing session token with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("signed session token")

	return signed, nil
}

// VerifyToken checks signature, expiry, issuer, and audience against the
// server-held secret and returns the administrator email. Callers must not
// expose why verification failed beyond unauthorized.
func VerifyToken(c context.Context, token string, secret string) (string, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "session VerifyToken").
		Logger()

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithAudience(common.AudienceAdmin),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(common.AppAdminService),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing session token with error=%w", err)
		logger.Warn().Err(err).Msg(err.Error())
		return "", inErrors.ErrUnauthorized
	}
	if !parsed.Valid || claims.Subject == "" {
		logger.Warn().Err(inErrors.ErrUnauthorized).Msg("session token is invalid")
		return "", inErrors.ErrUnauthorized
	}

	return claims.Subject, nil
}

// NewCookie wraps a signed token into the admin session cookie.
func NewCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     common.AdminSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie instructs the client to delete a stale session credential.
func ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     common.AdminSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
