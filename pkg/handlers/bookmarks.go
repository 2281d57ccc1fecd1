package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashiknm/dsa-backend/pkg/bookmarks"
	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/middleware"
	"github.com/ashiknm/dsa-backend/pkg/models"
	"github.com/ashiknm/dsa-backend/pkg/utils"
)

// BookmarkHandler 收藏处理器
// 条目引用接受规范 id、精确标题或模糊文本，解析交给收藏服务
type BookmarkHandler struct {
	config  *config.Config
	store   database.Store
	service *bookmarks.Service
}

// NewBookmarkHandler 创建收藏处理器
func NewBookmarkHandler(cfg *config.Config, store database.Store, svc *bookmarks.Service) *BookmarkHandler {
	return &BookmarkHandler{
		config:  cfg,
		store:   store,
		service: svc,
	}
}

// Toggle 切换收藏状态
// POST /api/bookmarks（需要登录）
// 未收藏 → added，已收藏 → removed，响应带切换后的完整分组集合
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req models.ToggleRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	result, err := h.service.Toggle(user.ID, req.ItemID, req.ItemType)
	if err != nil {
		writeBookmarkServiceError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, result)
}

// List 列出当前用户的收藏
// GET /api/bookmarks?item_type=（需要登录）
// 按创建时间倒序；源条目已删除的收藏照常出现（标题为快照值）
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var typeFilter *models.ItemType
	if raw := utils.GetQueryParam(r, "item_type", ""); raw != "" {
		itemType, err := models.ParseItemType(raw)
		if err != nil {
			utils.WriteValidationErrorResponse(w, err.Error())
			return
		}
		typeFilter = &itemType
	}

	list, err := h.service.List(user.ID, typeFilter)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch bookmarks")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"bookmarks": list,
		"count":     len(list),
	})
}

// Grouped 按类型分组返回当前用户的完整收藏集合
// GET /api/bookmarks/grouped（需要登录）
func (h *BookmarkHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	set, err := h.service.Set(user.ID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch bookmarks")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"bookmarks": set,
		"count":     set.Count(),
	})
}

// RemoveByItem 按条目引用删除收藏
// DELETE /api/bookmarks/item/{itemRef}/{itemType}（需要登录）
// 与 Toggle 不同，目标不存在时报 404 而非翻转
func (h *BookmarkHandler) RemoveByItem(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	itemRef := chi.URLParam(r, "itemRef")
	itemType := chi.URLParam(r, "itemType")

	result, err := h.service.Remove(user.ID, itemRef, itemType)
	if err != nil {
		writeBookmarkServiceError(w, err)
		return
	}

	utils.WriteSuccessResponse(w, result)
}

// RemoveByID 按收藏行 id 删除
// DELETE /api/bookmarks/{id}（需要登录）
func (h *BookmarkHandler) RemoveByID(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	bookmark, err := h.store.DeleteBookmarkByID(user.ID, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Bookmark not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to delete bookmark")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message":  "Bookmark removed successfully",
		"bookmark": bookmark,
	})
}
