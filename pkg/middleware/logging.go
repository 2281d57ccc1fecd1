package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/logger"
	"github.com/ashiknm/dsa-backend/pkg/models"
)

// Logger 创建日志中间件
// 开发环境使用Chi的彩色日志，生产环境输出zap结构化日志
func Logger(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.IsDevelopment() {
		return chimiddleware.Logger
	}
	return structuredLogger()
}

const principalHolderKey ContextKey = "principal_holder"

// principalHolder 跨中间件层传递已认证用户
// 认证中间件把用户挂在派生请求的context上，外层请求对象看不到，
// 日志层先安装holder，认证层解析成功后回写
type principalHolder struct {
	mu   sync.Mutex
	user *models.User
}

func (h *principalHolder) set(user *models.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = user
}

func (h *principalHolder) get() *models.User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.user
}

// capturePrincipal 在请求context上安装holder，返回派生请求
func capturePrincipal(r *http.Request) (*http.Request, *principalHolder) {
	holder := &principalHolder{}
	ctx := context.WithValue(r.Context(), principalHolderKey, holder)
	return r.WithContext(ctx), holder
}

// notePrincipal 认证成功后回写外层holder，未安装时为空操作
func notePrincipal(ctx context.Context, user *models.User) {
	if holder, ok := ctx.Value(principalHolderKey).(*principalHolder); ok {
		holder.set(user)
	}
}

// structuredLogger 生产环境结构化请求日志
func structuredLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			r, holder := capturePrincipal(r)

			// 包装ResponseWriter以捕获状态码
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// 获取用户信息（如果有）
			userInfo := "anonymous"
			if user := holder.get(); user != nil {
				userInfo = user.Email
			}

			logger.L().Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("user", userInfo),
				zap.String("ip", getClientIP(r)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}

// getClientIP 获取客户端IP地址
func getClientIP(r *http.Request) string {
	// 检查X-Forwarded-For头（代理/负载均衡器）
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	// 检查X-Real-IP头
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
