package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/models"
)

func newAuthHandler(t *testing.T) (*AuthHandler, *database.MemoryStore) {
	t.Helper()
	cfg := &config.Config{
		Environment:   "development",
		Port:          "3001",
		JWTSecret:     "test-secret",
		AdminEmail:    "admin@example.com",
		AdminPassword: "admin123",
	}
	store := database.NewMemoryStore()
	return NewAuthHandler(cfg, store), store
}

func postLogin(t *testing.T, h *AuthHandler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(models.UserLoginRequest{Email: email, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginConfigAdmin(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postLogin(t, h, "admin@example.com", "admin123")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["role"])
	assert.Equal(t, defaultAdminID, user["id"])
	// 密码不出现在响应里
	_, leaked := user["password"]
	assert.False(t, leaked)
}

func TestLoginStoredUser(t *testing.T) {
	h, store := newAuthHandler(t)
	require.NoError(t, store.CreateUser(&models.User{
		Email:    "dev@example.com",
		Name:     "Dev",
		Password: "hunter2",
	}))

	rec := postLogin(t, h, "dev@example.com", "hunter2")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeResponse(t, rec)["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "dev@example.com", user["email"])
}

func TestLoginRejections(t *testing.T) {
	h, _ := newAuthHandler(t)

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{name: "wrong password", email: "admin@example.com", password: "nope", want: http.StatusUnauthorized},
		{name: "unknown user", email: "ghost@example.com", password: "x", want: http.StatusUnauthorized},
		{name: "missing fields", email: "", password: "", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLogin(t, h, tt.email, tt.password)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	h, _ := newAuthHandler(t)

	rec := postLogin(t, h, "admin@example.com", "admin123")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec)["data"].(map[string]interface{})
	refreshToken := data["refresh_token"].(string)

	body, err := json.Marshal(models.RefreshTokenRequest{RefreshToken: refreshToken})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	h.RefreshToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeResponse(t, rec)["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])

	// access token 不能用来刷新
	accessBody, _ := json.Marshal(models.RefreshTokenRequest{RefreshToken: data["access_token"].(string)})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewReader(accessBody))
	rec = httptest.NewRecorder()
	h.RefreshToken(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
