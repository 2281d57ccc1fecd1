package handlers

import (
	"net/http"
	"time"

	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/utils"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	config *config.Config
	store  database.Store
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(cfg *config.Config, store database.Store) *HealthHandler {
	return &HealthHandler{
		config: cfg,
		store:  store,
	}
}

// Index 服务信息
// GET /
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"service":     "dsa-backend",
		"version":     "1.0.0",
		"environment": h.config.Environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Health 存活与数据库连通性检查
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(); err != nil {
		utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE", "Database unreachable", err.Error())
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"status":    "ok",
		"database":  "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// TestDB 数据库连通性与行数快照（调试用）
// GET /api/test-db
func (h *HealthHandler) TestDB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(); err != nil {
		utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE", "Database unreachable", err.Error())
		return
	}

	stats, err := h.store.Stats()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to query stats")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message": "Database connection successful",
		"stats":   stats,
	})
}
