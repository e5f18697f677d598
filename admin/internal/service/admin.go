package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/printforge/storefront/internal/config"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/log"
	"github.com/printforge/storefront/internal/otel"
	"github.com/printforge/storefront/internal/session"
)

// AdminService establishes administrator sessions and performs the elevated
// operations that require the allow-list on top of a valid session.
type AdminService struct {
	app       config.Application
	admin     config.Admin
	allowList session.AllowList
}

func NewAdminService(
	app config.Application,
	admin config.Admin,
	allowList session.AllowList,
) *AdminService {
	return &AdminService{app: app, admin: admin, allowList: allowList}
}

func (s *AdminService) SessionTTL() time.Duration {
	return time.Duration(s.admin.SessionTTLMinutes) * time.Minute
}

// Login verifies the credentials against the configured accounts and returns
// a signed session token. Failures are uniformly unauthorized; the caller
// never learns whether the email or the password was wrong.
func (s *AdminService) Login(
	c context.Context,
	email string,
	password string,
) (string, error) {
	c, span := otel.Tracer.Start(c, "AdminService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminService Login").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding admin account").Logger()
	logger.Info().Msg("finding admin account")
	account, found := s.account(email)
	if !found {
		inErrors.HandleError(inErrors.ErrUnauthorized, span)
		logger.Warn().Err(inErrors.ErrUnauthorized).Msg("admin account not found")
		return "", inErrors.ErrUnauthorized
	}
	logger.Info().Msg("found admin account")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Info().Msg("verifying password")
	err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
	if err != nil {
		inErrors.HandleError(inErrors.ErrUnauthorized, span)
		logger.Warn().Err(inErrors.ErrUnauthorized).Msg("password mismatch")
		return "", inErrors.ErrUnauthorized
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "issuing session token").Logger()
	logger.Info().Msg("issuing session token")
	c = logger.WithContext(c)
	token, err := session.IssueToken(c, account.Email, s.app.SecretKey, s.SessionTTL())
	if err != nil {
		err = fmt.Errorf("failed issuing session token with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("issued session token")

	return token, nil
}

// Revalidate asks the storefront frontend to rebuild a content path. The
// allow-list is a second authorization layer here: session validity alone is
// not enough.
func (s *AdminService) Revalidate(c context.Context, email string, path string) error {
	c, span := otel.Tracer.Start(c, "AdminService Revalidate")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminService Revalidate").
		Str(log.KeyEmail, email).
		Str("path", path).
		Logger()

	if !s.allowList.Contains(email) {
		inErrors.HandleError(inErrors.ErrUnauthorized, span)
		logger.Warn().Err(inErrors.ErrUnauthorized).Msg("email is not on the admin allow-list")
		return inErrors.ErrUnauthorized
	}

	logger = logger.With().Str(log.KeyProcess, "requesting revalidation").Logger()
	logger.Info().Msg("requesting revalidation")
	payload, err := json.Marshal(map[string]string{"path": path})
	if err != nil {
		err = fmt.Errorf("failed marshaling revalidation payload with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req, err := http.NewRequestWithContext(
		c,
		http.MethodPost,
		s.admin.RevalidateURL,
		bytes.NewBuffer(payload),
	)
	if err != nil {
		err = fmt.Errorf("failed creating revalidation request with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed requesting revalidation with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = fmt.Errorf("revalidation endpoint returned status code=%d", resp.StatusCode)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("requested revalidation")

	return nil
}

func (s *AdminService) account(email string) (config.AdminAccount, bool) {
	for _, account := range s.admin.Accounts {
		if strings.EqualFold(strings.TrimSpace(account.Email), strings.TrimSpace(email)) {
			return account, true
		}
	}
	return config.AdminAccount{}, false
}
