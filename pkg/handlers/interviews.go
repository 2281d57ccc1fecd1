package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ashiknm/dsa-backend/pkg/bookmarks"
	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/logger"
	"github.com/ashiknm/dsa-backend/pkg/middleware"
	"github.com/ashiknm/dsa-backend/pkg/models"
	"github.com/ashiknm/dsa-backend/pkg/utils"
)

// InterviewHandler 面试题集处理器
type InterviewHandler struct {
	config    *config.Config
	store     database.Store
	bookmarks *bookmarks.Service
}

// NewInterviewHandler 创建面试题集处理器
func NewInterviewHandler(cfg *config.Config, store database.Store, svc *bookmarks.Service) *InterviewHandler {
	return &InterviewHandler{
		config:    cfg,
		store:     store,
		bookmarks: svc,
	}
}

// List 获取面试题集列表
// GET /api/interviews?category=&search=
func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.InterviewFilter{
		Category: utils.GetQueryParam(r, "category", ""),
		Search:   utils.GetQueryParam(r, "search", ""),
	}

	interviews, err := h.store.ListInterviews(filter)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch interviews")
		return
	}
	if interviews == nil {
		interviews = []models.Interview{}
	}

	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		ids := make([]string, len(interviews))
		for i := range interviews {
			ids[i] = interviews[i].ID
		}
		marked, err := h.bookmarks.BookmarkedIDs(user.ID, models.ItemTypeInterview, ids)
		if err == nil {
			for i := range interviews {
				interviews[i].Bookmarked = marked[interviews[i].ID]
			}
		}
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"interviews": interviews,
		"count":      len(interviews),
	})
}

// Get 获取单个面试题集
// GET /api/interviews/{id}
func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	interview, err := h.store.GetInterview(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Interview not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch interview")
		return
	}

	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		marked, err := h.bookmarks.IsBookmarked(user.ID, interview.ID, models.ItemTypeInterview)
		if err == nil {
			interview.Bookmarked = marked
		}
	}

	utils.WriteSuccessResponse(w, interview)
}

// Create 创建面试题集
// POST /api/interviews（需要登录）
func (h *InterviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req models.InterviewCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Title == "" || req.Category == "" || req.Content == "" {
		utils.WriteValidationErrorResponse(w, "title, category and content are required")
		return
	}

	interview := &models.Interview{
		Title:       req.Title,
		Category:    req.Category,
		Tags:        req.Tags,
		Description: req.Description,
		Content:     req.Content,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
	}

	if err := h.store.CreateInterview(interview); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create interview")
		return
	}

	utils.WriteCreatedResponse(w, interview)
}

// Update 更新面试题集
// PUT /api/interviews/{id}（需要登录）
func (h *InterviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	var req models.InterviewUpdateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	interview, err := h.store.UpdateInterview(id, &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Interview not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to update interview")
		return
	}

	utils.WriteSuccessResponse(w, interview)
}

// Delete 删除面试题集并级联清理指向它的收藏
// DELETE /api/interviews/{id}（需要登录）
func (h *InterviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	interview, err := h.store.DeleteInterview(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Interview not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to delete interview")
		return
	}

	if err := h.bookmarks.CascadeDelete(interview.ID, models.ItemTypeInterview); err != nil {
		logger.L().Warn("bookmark cascade cleanup failed",
			zap.String("item_id", interview.ID),
			zap.String("item_type", string(models.ItemTypeInterview)),
			zap.Error(err))
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message":   "Interview deleted successfully",
		"interview": interview,
	})
}
