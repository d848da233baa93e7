package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truehomes/truehomes-api/internal/constants"
	"github.com/truehomes/truehomes-api/internal/dto"
	apierrors "github.com/truehomes/truehomes-api/internal/errors"
)

func postJSON(t *testing.T, router http.Handler, path string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_SignupThenSignin(t *testing.T) {
	env := setupTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "a@x.com",
		"password": "Secret1!pass",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"email":    "a@x.com",
		"password": "Secret1!pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Session cookie set, body carries the user without a password field
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, constants.SessionCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Username)
	require.NotContains(t, w.Body.String(), "password")

	userID, err := env.tokens.VerifySession(cookies[0].Value)
	require.NoError(t, err)
	require.Equal(t, response.ID, userID)
}

func TestAuthHandler_SignupDuplicates(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice", "a@x.com", "Secret1!pass")

	// Same email, different username
	w := postJSON(t, env.router, "/api/auth/signup", map[string]string{
		"username": "alice2",
		"email":    "a@x.com",
		"password": "Secret1!pass",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	// Same username, different email gets the compatibility status
	w = postJSON(t, env.router, "/api/auth/signup", map[string]string{
		"username": "alice",
		"email":    "other@x.com",
		"password": "Secret1!pass",
	})
	require.Equal(t, apierrors.StatusUsernameTaken, w.Code)

	var envelope apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.False(t, envelope.Success)
	require.Equal(t, apierrors.StatusUsernameTaken, envelope.StatusCode)
}

func TestAuthHandler_SigninFailures(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice", "a@x.com", "Secret1!pass")

	w := postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"email":    "nobody@x.com",
		"password": "Secret1!pass",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"email":    "a@x.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GoogleIdempotent(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{
		"name":  "Carol Smith",
		"email": "carol@x.com",
		"photo": "https://photos.example/carol.png",
	}

	w := postJSON(t, env.router, "/api/auth/google", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var first dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.True(t, strings.HasPrefix(first.Username, "carolsmith"))
	require.Equal(t, "https://photos.example/carol.png", first.Avatar)

	// Second federated login resolves to the same account
	w = postJSON(t, env.router, "/api/auth/google", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var second dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, first.ID, second.ID)
}

func TestAuthHandler_Signout(t *testing.T) {
	env := setupTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/signout", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, constants.SessionCookieName, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestAuthHandler_ForgotPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice", "a@x.com", "Secret1!pass")

	// Unknown email gets the same generic success and no mail
	w := postJSON(t, env.router, "/api/auth/forgot-password", map[string]string{
		"email": "nobody@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, env.mailer.recipients)

	// Known email gets the reset link
	w = postJSON(t, env.router, "/api/auth/forgot-password", map[string]string{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"a@x.com"}, env.mailer.recipients)
	require.Len(t, env.mailer.resetURLs, 1)
	require.Contains(t, env.mailer.resetURLs[0], "/reset-password/")

	// Delivery failure is surfaced, never a fake success
	env.mailer.failNext = true
	w = postJSON(t, env.router, "/api/auth/forgot-password", map[string]string{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAuthHandler_ResetPasswordFlow(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice", "a@x.com", "Secret1!pass")

	w := postJSON(t, env.router, "/api/auth/forgot-password", map[string]string{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.mailer.resetURLs, 1)

	parts := strings.Split(env.mailer.resetURLs[0], "/reset-password/")
	require.Len(t, parts, 2)
	token := parts[1]

	w = postJSON(t, env.router, "/api/auth/reset-password/"+token, map[string]string{
		"newPassword": "BrandNew1!pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Old password no longer works, new one does
	w = postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"email":    "a@x.com",
		"password": "Secret1!pass",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, env.router, "/api/auth/signin", map[string]string{
		"email":    "a@x.com",
		"password": "BrandNew1!pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The redeemed link is dead: the fingerprint no longer matches
	w = postJSON(t, env.router, "/api/auth/reset-password/"+token, map[string]string{
		"newPassword": "AnotherPass1!",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_ResetPasswordBadToken(t *testing.T) {
	env := setupTestEnv(t)
	env.signupUser(t, "alice", "a@x.com", "Secret1!pass")

	w := postJSON(t, env.router, "/api/auth/reset-password/not-a-token", map[string]string{
		"newPassword": "BrandNew1!pass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
