package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully", decodeBody(t, rec)["message"])

	// Same email again conflicts.
	rec = env.doJSON(http.MethodPost, "/auth/signup", map[string]string{
		"username": "alice2",
		"email":    "alice@x.com",
		"password": "secret2",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, rec)["message"])
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "short username", payload: map[string]string{"username": "al", "email": "a@x.com", "password": "secret1"}},
		{name: "short password", payload: map[string]string{"username": "alice", "email": "a@x.com", "password": "123"}},
		{name: "bad email", payload: map[string]string{"username": "alice", "email": "nope", "password": "secret1"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSON(http.MethodPost, "/auth/signup", tt.payload, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("alice", "alice@x.com", "secret1")

	body := env.login("alice@x.com", "secret1")
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "user", body["role"])
}

func TestLogin_GenericErrorShape(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("alice", "alice@x.com", "secret1")

	wrongPassword := env.doForm("/auth/login", url.Values{"username": {"alice@x.com"}, "password": {"wrong"}})
	unknownEmail := env.doForm("/auth/login", url.Values{"username": {"nobody@x.com"}, "password": {"secret1"}})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Identical response bodies: no account enumeration.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestRefresh(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("alice", "alice@x.com", "secret1")
	pair := env.login("alice@x.com", "secret1")

	rec := env.doJSON(http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": pair["refresh_token"].(string),
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := decodeBody(t, rec)
	assert.NotEmpty(t, rotated["access_token"])
	assert.NotEqual(t, pair["refresh_token"], rotated["refresh_token"])

	// The rotated-out token is rejected on replay.
	rec = env.doJSON(http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": pair["refresh_token"].(string),
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_BadToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": "bad-token",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid refresh token", decodeBody(t, rec)["message"])
}

func TestLogout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("alice", "alice@x.com", "secret1")
	pair := env.login("alice@x.com", "secret1")
	access := pair["access_token"].(string)

	rec := env.doJSON(http.MethodPost, "/auth/logout", nil, bearer(access))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out", decodeBody(t, rec)["message"])

	// Idempotent on repeat.
	rec = env.doJSON(http.MethodPost, "/auth/logout", nil, bearer(access))
	require.Equal(t, http.StatusOK, rec.Code)

	// The session's refresh token no longer works.
	rec = env.doJSON(http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": pair["refresh_token"].(string),
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signup("alice", "alice@x.com", "secret1")
	pair := env.login("alice@x.com", "secret1")

	rec := env.doJSON(http.MethodGet, "/secure/me", nil, bearer(pair["access_token"].(string)))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "alice@x.com", body["email"])
	assert.Equal(t, "You are authenticated.", body["message"])

	rec = env.doJSON(http.MethodGet, "/secure/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodGet, "/secure/me", nil, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
