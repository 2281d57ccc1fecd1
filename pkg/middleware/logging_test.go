package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// loggedUser 复刻结构化日志的读取路径：外层安装holder，
// 请求走完整个链后从holder读principal
func loggedUser(inner http.Handler, req *http.Request) string {
	rec := httptest.NewRecorder()
	email := "anonymous"
	outer := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, holder := capturePrincipal(r)
		inner.ServeHTTP(w, r)
		if user := holder.get(); user != nil {
			email = user.Email
		}
	})
	outer.ServeHTTP(rec, req)
	return email
}

// 认证中间件在日志层之后才挂principal，日志层必须仍能看到它
func TestRequestLoggerSeesAuthenticatedUser(t *testing.T) {
	cfg := testConfig()
	access, _ := issueTokens(t, cfg)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("required auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access)

		got := loggedUser(AuthMiddleware(cfg)(ok), req)
		assert.Equal(t, "dev@example.com", got)
	})

	t.Run("optional auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access)

		got := loggedUser(OptionalAuthMiddleware(cfg)(ok), req)
		assert.Equal(t, "dev@example.com", got)
	})

	t.Run("anonymous request stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		got := loggedUser(OptionalAuthMiddleware(cfg)(ok), req)
		assert.Equal(t, "anonymous", got)
	})

	t.Run("rejected token stays anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")

		got := loggedUser(AuthMiddleware(cfg)(ok), req)
		assert.Equal(t, "anonymous", got)
	})
}
