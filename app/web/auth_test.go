package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestServer_Auth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	env := newTestEnv(t, echoRunner(), func(cfg *Config) {
		cfg.PasswordHash = string(hash)
		cfg.LoginLimit = 100
	})

	t.Run("redirect to login", func(t *testing.T) {
		rr := env.get(t, "/")
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})

	t.Run("login form and static are open", func(t *testing.T) {
		rr := env.get(t, "/login")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `name="password"`)
		assert.Equal(t, http.StatusOK, env.get(t, "/static/style.css").Code)
	})

	t.Run("api without auth is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		req.Header.Set("Accept", "application/json")
		rr := httptest.NewRecorder()
		env.handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr, _ := env.post(t, "/login", url.Values{"password": {"bad"}})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid password")

		rr, _ = env.post(t, "/login", url.Values{})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Password is required")
	})

	t.Run("login, use and logout", func(t *testing.T) {
		rr, cookies := env.post(t, "/login", url.Values{"password": {"secret"}})
		require.Equal(t, http.StatusSeeOther, rr.Code)
		require.Len(t, cookies, 1)
		assert.Equal(t, authCookie, cookies[0].Name)
		assert.Equal(t, 24*60*60, cookies[0].MaxAge)

		assert.Equal(t, http.StatusOK, env.get(t, "/", cookies...).Code)
		rr, _ = env.post(t, "/ping", url.Values{"target": {"1.1.1.1"}}, cookies...)
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))

		rr = env.get(t, "/logout", cookies...)
		assert.Equal(t, http.StatusSeeOther, rr.Code)
		assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)
	})

	t.Run("basic auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
		req.SetBasicAuth("netdiag", "secret")
		rr := httptest.NewRecorder()
		env.handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestServer_LoginRateLimit(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	env := newTestEnv(t, echoRunner(), func(cfg *Config) { cfg.PasswordHash = string(hash) })

	codes := []int{}
	for range 5 {
		rr, _ := env.post(t, "/login", url.Values{"password": {"bad"}})
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, http.StatusUnauthorized, codes[0])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}
