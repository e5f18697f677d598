package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/printforge/storefront/internal/config"
	inErrors "github.com/printforge/storefront/internal/errors"
	"github.com/printforge/storefront/internal/session"
)

const testSecret = "test-secret"

func newTestAdminService(t *testing.T, revalidateURL string) *AdminService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	admin := config.Admin{
		SessionTTLMinutes: 60,
		AllowedEmails:     []string{"owner@printforge.example"},
		RevalidateURL:     revalidateURL,
		Accounts: []config.AdminAccount{
			{Email: "owner@printforge.example", PasswordHash: string(hash)},
			{Email: "helper@printforge.example", PasswordHash: string(hash)},
		},
	}
	return NewAdminService(
		config.Application{SecretKey: testSecret},
		admin,
		session.NewAllowList(admin.AllowedEmails),
	)
}

func TestLogin(t *testing.T) {
	c := context.Background()
	svc := newTestAdminService(t, "")

	token, err := svc.Login(c, "owner@printforge.example", "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := session.VerifyToken(c, token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "owner@printforge.example", email)
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	c := context.Background()
	svc := newTestAdminService(t, "")

	token, err := svc.Login(c, "Owner@PrintForge.example", "hunter2")
	require.NoError(t, err)

	email, err := session.VerifyToken(c, token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "owner@printforge.example", email, "token carries the configured email")
}

func TestLoginFailuresAreUniform(t *testing.T) {
	c := context.Background()
	svc := newTestAdminService(t, "")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "given unknown email should reject", email: "nobody@printforge.example", password: "hunter2"},
		{name: "given wrong password should reject", email: "owner@printforge.example", password: "wrong"},
		{name: "given empty password should reject", email: "owner@printforge.example", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(c, tt.email, tt.password)
			assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
			assert.Equal(
				t,
				inErrors.ErrUnauthorized.Error(),
				err.Error(),
				"failure reason must not leak",
			)
		})
	}
}

func TestSessionTTL(t *testing.T) {
	svc := newTestAdminService(t, "")
	assert.Equal(t, time.Hour, svc.SessionTTL())
}

func TestRevalidate(t *testing.T) {
	received := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := newTestAdminService(t, server.URL)

	err := svc.Revalidate(context.Background(), "owner@printforge.example", "/products/benchy")
	require.NoError(t, err)
	assert.Equal(t, "/products/benchy", received["path"])
}

func TestRevalidateNotOnAllowList(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc := newTestAdminService(t, server.URL)

	// valid session, but not on the allow-list
	err := svc.Revalidate(context.Background(), "helper@printforge.example", "/products/benchy")
	assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
	assert.False(t, called, "rejected request must never reach the frontend")
}

func TestRevalidateEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestAdminService(t, server.URL)

	err := svc.Revalidate(context.Background(), "owner@printforge.example", "/products/benchy")
	assert.Error(t, err)
}
