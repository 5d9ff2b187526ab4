package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/aidoctor-go/config"
)

func newTestRouter() (*chi.Mux, *config.AuthConfig) {
	cfg := &config.AuthConfig{
		JWTSecret:           "test-secret",
		AccessTokenDuration: 30 * time.Minute,
	}
	svc := NewAuthService(newFakeUserStore(), *cfg)
	handlers := NewHandlers(svc)

	r := chi.NewRouter()
	r.Post("/auth/register", handlers.HandleRegister())
	r.Post("/auth/login", handlers.HandleLogin())
	r.Group(func(r chi.Router) {
		r.Use(JWTMiddleware(cfg))
		r.Get("/ai_doctor", handlers.HandleAIDoctor())
	})
	return r, cfg
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func credentials(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

// Walks the full register/login/gate scenario end to end.
func TestAuthEndpoints_Scenario(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter()

	// register ("alice", "pw1") -> success
	w := postForm(t, router, "/auth/register", credentials("alice", "pw1"))
	require.Equal(t, http.StatusCreated, w.Code)
	var reg MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.Equal(t, "user registered successfully", reg.Message)
	assert.NotContains(t, w.Body.String(), "pw1", "response must not echo the password")

	// register ("alice", "pw2") -> conflict
	w = postForm(t, router, "/auth/register", credentials("alice", "pw2"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotContains(t, w.Body.String(), "pw2")

	// login ("alice", "pw1") -> token T
	w = postForm(t, router, "/auth/login", credentials("alice", "pw1"))
	require.Equal(t, http.StatusOK, w.Code)
	var tok TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	assert.Equal(t, "bearer", tok.TokenType)
	require.NotEmpty(t, tok.AccessToken)

	// current_user(T) -> "alice"
	req := httptest.NewRequest(http.MethodGet, "/ai_doctor", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	gateW := httptest.NewRecorder()
	router.ServeHTTP(gateW, req)
	require.Equal(t, http.StatusOK, gateW.Code)
	var welcome WelcomeResponse
	require.NoError(t, json.Unmarshal(gateW.Body.Bytes(), &welcome))
	assert.Equal(t, "Welcome to AI Doctor, alice!", welcome.Message)

	// login ("alice", "pw2") -> unauthorized
	wrongPw := postForm(t, router, "/auth/login", credentials("alice", "pw2"))
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)

	// login ("bob", "pw1") -> unauthorized, identical error shape
	unknownUser := postForm(t, router, "/auth/login", credentials("bob", "pw1"))
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.Equal(t, wrongPw.Body.String(), unknownUser.Body.String())
}

func TestAuthEndpoints_MissingFields(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter()

	for _, path := range []string{"/auth/register", "/auth/login"} {
		w := postForm(t, router, path, url.Values{"username": {"alice"}})
		assert.Equal(t, http.StatusBadRequest, w.Code, "missing password on %s", path)

		w = postForm(t, router, path, url.Values{"password": {"pw1"}})
		assert.Equal(t, http.StatusBadRequest, w.Code, "missing username on %s", path)
	}
}

func TestAuthEndpoints_UsernameIsCaseSensitive(t *testing.T) {
	t.Parallel()
	router, _ := newTestRouter()

	w := postForm(t, router, "/auth/register", credentials("Alice", "pw1"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Exact-match lookup: no case folding.
	w = postForm(t, router, "/auth/login", credentials("alice", "pw1"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postForm(t, router, "/auth/login", credentials("Alice", "pw1"))
	assert.Equal(t, http.StatusOK, w.Code)
}
