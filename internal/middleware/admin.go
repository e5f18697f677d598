package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/printforge/storefront/internal/common"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/metrics"
	"github.com/printforge/storefront/internal/otel"
	"github.com/printforge/storefront/internal/session"
)

// AdminSessionGate intercepts every request to the administrative routes and
// verifies the signed session cookie before any administrative logic runs.
// Verification is purely local signature and expiry checking; no store lookup
// happens on the request path. Every failure redirects to the login entry
// point instead of surfacing a fault, and the login path itself always passes
// so the redirect can never loop. The session-check path also passes since it
// reports the session state instead of enforcing it.
func AdminSessionGate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware AdminSessionGate")
			defer span.End()

			logger := zerolog.Ctx(c).
				With().
				Str(log.KeyTag, "middleware AdminSessionGate").
				Str(log.KeyRequestIP, r.RemoteAddr).
				Str(log.KeyRequestURI, r.RequestURI).
				Logger()

			if r.URL.Path == common.AdminLoginPath || r.URL.Path == common.AdminSessionPath {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(common.AdminSessionCookie)
			if err != nil {
				metrics.AdminGateRejections.Inc()
				inErrors.HandleError(inErrors.ErrUnauthorized, span)
				logger.Warn().
					Err(inErrors.ErrUnauthorized).
					Msg("missing admin session credential")
				http.Redirect(w, r, common.AdminLoginPath, http.StatusSeeOther)
				return
			}

			c = logger.WithContext(c)
			email, err := session.VerifyToken(c, cookie.Value, secret)
			if err != nil {
				metrics.AdminGateRejections.Inc()
				inErrors.HandleError(inErrors.ErrUnauthorized, span)
				logger.Warn().
					Err(inErrors.ErrUnauthorized).
					Msg("rejected invalid admin session credential")
				http.SetCookie(w, session.ExpiredCookie())
				http.Redirect(w, r, common.AdminLoginPath, http.StatusSeeOther)
				return
			}

			logger.Debug().Str(log.KeyEmail, email).Msg("admin session verified")
			next.ServeHTTP(w, r)
		})
	}
}
