package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printforge/storefront/internal/common"
	inErrors "github.com/printforge/storefront/internal/errors"
)

const testSecret = "test-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	c := context.Background()

	token, err := IssueToken(c, "owner@printforge.example", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := VerifyToken(c, token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "owner@printforge.example", email)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	c := context.Background()

	token, err := IssueToken(c, "owner@printforge.example", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(c, token, "another-secret")
	assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
}

func TestVerifyTokenExpired(t *testing.T) {
	c := context.Background()

	token, err := IssueToken(c, "owner@printforge.example", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(c, token, testSecret)
	assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
}

func TestVerifyTokenGarbage(t *testing.T) {
	c := context.Background()

	_, err := VerifyToken(c, "not.a.token", testSecret)
	assert.ErrorIs(t, err, inErrors.ErrUnauthorized)

	_, err = VerifyToken(c, "", testSecret)
	assert.ErrorIs(t, err, inErrors.ErrUnauthorized)
}

func TestCookies(t *testing.T) {
	cookie := NewCookie("signed-token", time.Hour)
	assert.Equal(t, common.AdminSessionCookie, cookie.Name)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)

	expired := ExpiredCookie()
	assert.Equal(t, common.AdminSessionCookie, expired.Name)
	assert.Empty(t, expired.Value)
	assert.Negative(t, expired.MaxAge)
}

func TestAllowList(t *testing.T) {
	allowList := NewAllowList([]string{"Owner@PrintForge.example", " second@printforge.example "})

	assert.True(t, allowList.Contains("owner@printforge.example"))
	assert.True(t, allowList.Contains("OWNER@printforge.example"))
	assert.True(t, allowList.Contains("second@printforge.example"))
	assert.False(t, allowList.Contains("intruder@printforge.example"))
	assert.False(t, allowList.Contains(""))
}
