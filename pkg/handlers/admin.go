package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/logger"
	"github.com/ashiknm/dsa-backend/pkg/middleware"
	"github.com/ashiknm/dsa-backend/pkg/utils"
)

// AdminHandler 管理端处理器
type AdminHandler struct {
	config *config.Config
	store  database.Store
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(cfg *config.Config, store database.Store) *AdminHandler {
	return &AdminHandler{
		config: cfg,
		store:  store,
	}
}

// requireAdmin 校验管理员角色
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return false
	}
	if !user.IsAdmin() {
		utils.WriteForbiddenResponse(w, "Admin access required")
		return false
	}
	return true
}

// Stats 各表行数统计
// GET /api/admin/stats（需要管理员）
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	stats, err := h.store.Stats()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch stats")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"stats":     stats,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateTables 建表（幂等，IF NOT EXISTS）
// POST /api/admin/create-tables（需要管理员）
func (h *AdminHandler) CreateTables(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	if err := h.store.CreateTables(); err != nil {
		logger.L().Error("create tables failed", zap.Error(err))
		utils.WriteInternalServerErrorResponse(w, "Failed to create tables: "+err.Error())
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message": "Tables created successfully",
	})
}

// Seed 写入种子数据（冲突跳过，可重复执行）
// POST /api/admin/seed（需要管理员）
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	if err := h.store.SeedData(); err != nil {
		logger.L().Error("seed data failed", zap.Error(err))
		utils.WriteInternalServerErrorResponse(w, "Failed to seed data: "+err.Error())
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message": "Seed data inserted successfully",
	})
}
