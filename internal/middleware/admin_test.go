package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/storefront/internal/common"
	"github.com/printforge/storefront/internal/session"
)

const testSecret = "test-secret"

func gatedHandler(t *testing.T, reached *bool) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		w.WriteHeader(http.StatusOK)
	})
	return AdminSessionGate(testSecret)(next)
}

func TestGateLoginPathAlwaysPasses(t *testing.T) {
	reached := false
	handler := gatedHandler(t, &reached)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(
		recorder,
		httptest.NewRequest(http.MethodPost, common.AdminLoginPath, nil),
	)

	assert.True(t, reached, "login path must never redirect")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGateSessionPathAlwaysPasses(t *testing.T) {
	reached := false
	handler := gatedHandler(t, &reached)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(
		recorder,
		httptest.NewRequest(http.MethodGet, common.AdminSessionPath, nil),
	)

	assert.True(t, reached, "session check must answer without a credential")
}

func TestGateMissingCookieRedirects(t *testing.T) {
	reached := false
	handler := gatedHandler(t, &reached)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(
		recorder,
		httptest.NewRequest(http.MethodGet, "/admin/orders", nil),
	)

	assert.False(t, reached)
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, common.AdminLoginPath, recorder.Header().Get("Location"))
}

func TestGateInvalidTokenRedirectsAndClearsCookie(t *testing.T) {
	reached := false
	handler := gatedHandler(t, &reached)

	request := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	request.AddCookie(&http.Cookie{Name: common.AdminSessionCookie, Value: "tampered"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.False(t, reached)
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, common.AdminLoginPath, recorder.Header().Get("Location"))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.AdminSessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge, "invalid credential must be expired on the client")
}

func TestGateExpiredTokenRedirects(t *testing.T) {
	reached := false
	handler := gatedHandler(t, &reached)

	token, err := session.IssueToken(
		context.Background(),
		"owner@printforge.example",
		testSecret,
		-time.Minute,
	)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	request.AddCookie(&http.Cookie{Name: common.AdminSessionCookie, Value: token})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.False(t, reached)
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
}

func TestGateValidTokenPasses(t *testing.T) {
	reached := false
	handler := gatedHandler(t, &reached)

	token, err := session.IssueToken(
		context.Background(),
		"owner@printforge.example",
		testSecret,
		time.Hour,
	)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	request.AddCookie(&http.Cookie{Name: common.AdminSessionCookie, Value: token})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies(), "valid session must pass through untouched")
}

func TestGateWrongSecretRedirects(t *testing.T) {
	reached := false
	handler := gatedHandler(t, &reached)

	token, err := session.IssueToken(
		context.Background(),
		"owner@printforge.example",
		"another-secret",
		time.Hour,
	)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	request.AddCookie(&http.Cookie{Name: common.AdminSessionCookie, Value: token})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.False(t, reached)
	assert.Equal(t, http.StatusSeeOther, recorder.Code)
}
