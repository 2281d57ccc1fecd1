package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/models"
	"github.com/ashiknm/dsa-backend/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "development",
		Port:        "3001",
		JWTSecret:   "test-secret",
	}
}

func issueTokens(t *testing.T, cfg *config.Config) (access, refresh string) {
	t.Helper()
	user := &models.User{ID: "u-1", Email: "dev@example.com", Role: "user"}
	access, refresh, _, err := utils.NewJWTService(cfg.JWTSecret).GenerateTokenPair(user)
	require.NoError(t, err)
	return access, refresh
}

// echoUser 把 context 里的 principal 写回响应，便于断言
func echoUser(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(user.Email))
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	access, refresh := issueTokens(t, cfg)
	handler := AuthMiddleware(cfg)(http.HandlerFunc(echoUser))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{name: "valid access token", authHeader: "Bearer " + access, wantStatus: http.StatusOK, wantBody: "dev@example.com"},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "no bearer prefix", authHeader: access, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "refresh token rejected", authHeader: "Bearer " + refresh, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	access, _ := issueTokens(t, cfg)
	handler := OptionalAuthMiddleware(cfg)(http.HandlerFunc(echoUser))

	tests := []struct {
		name       string
		authHeader string
		wantBody   string
	}{
		{name: "valid token attaches principal", authHeader: "Bearer " + access, wantBody: "dev@example.com"},
		{name: "missing header passes through", authHeader: "", wantBody: "anonymous"},
		{name: "invalid token passes through silently", authHeader: "Bearer not-a-jwt", wantBody: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRequireUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := RequireUser(req.Context())
	assert.Error(t, err)
}
