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

// ProblemHandler 题目处理器
type ProblemHandler struct {
	config    *config.Config
	store     database.Store
	bookmarks *bookmarks.Service
}

// NewProblemHandler 创建题目处理器
func NewProblemHandler(cfg *config.Config, store database.Store, svc *bookmarks.Service) *ProblemHandler {
	return &ProblemHandler{
		config:    cfg,
		store:     store,
		bookmarks: svc,
	}
}

// List 获取题目列表
// GET /api/problems?category=&difficulty=&search=
// 已登录用户附带 bookmarked 标注（一次批量成员查询，不逐条访问存储）
func (h *ProblemHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ProblemFilter{
		Category:   utils.GetQueryParam(r, "category", ""),
		Difficulty: utils.GetQueryParam(r, "difficulty", ""),
		Search:     utils.GetQueryParam(r, "search", ""),
	}

	problems, err := h.store.ListProblems(filter)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch problems")
		return
	}
	if problems == nil {
		problems = []models.Problem{}
	}

	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		ids := make([]string, len(problems))
		for i := range problems {
			ids[i] = problems[i].ID
		}
		marked, err := h.bookmarks.BookmarkedIDs(user.ID, models.ItemTypeProblem, ids)
		if err == nil {
			for i := range problems {
				problems[i].Bookmarked = marked[problems[i].ID]
			}
		}
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"problems": problems,
		"count":    len(problems),
	})
}

// Get 获取单个题目
// GET /api/problems/{id}
func (h *ProblemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	problem, err := h.store.GetProblem(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Problem not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch problem")
		return
	}

	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		marked, err := h.bookmarks.IsBookmarked(user.ID, problem.ID, models.ItemTypeProblem)
		if err == nil {
			problem.Bookmarked = marked
		}
	}

	utils.WriteSuccessResponse(w, problem)
}

// Create 创建题目
// POST /api/problems（需要登录）
func (h *ProblemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req models.ProblemCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Title == "" || req.Difficulty == "" || req.Category == "" || req.Description == "" {
		utils.WriteValidationErrorResponse(w, "title, difficulty, category and description are required")
		return
	}
	if !models.ValidDifficulty(req.Difficulty) {
		utils.WriteValidationErrorResponse(w, "difficulty must be 'Easy', 'Medium', or 'Hard'")
		return
	}

	problem := &models.Problem{
		Title:       req.Title,
		Difficulty:  req.Difficulty,
		Category:    req.Category,
		Tags:        req.Tags,
		Description: req.Description,
		Explanation: req.Explanation,
		Code:        req.Code,
		TestCases:   req.TestCases,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
	}

	if err := h.store.CreateProblem(problem); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create problem")
		return
	}

	utils.WriteCreatedResponse(w, problem)
}

// Update 更新题目（COALESCE 式部分更新，缺省字段保持原值）
// PUT /api/problems/{id}（需要登录）
func (h *ProblemHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	var req models.ProblemUpdateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Difficulty != nil && !models.ValidDifficulty(*req.Difficulty) {
		utils.WriteValidationErrorResponse(w, "difficulty must be 'Easy', 'Medium', or 'Hard'")
		return
	}

	problem, err := h.store.UpdateProblem(id, &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Problem not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to update problem")
		return
	}

	utils.WriteSuccessResponse(w, problem)
}

// Delete 删除题目并级联清理指向它的收藏
// DELETE /api/problems/{id}（需要登录）
func (h *ProblemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	problem, err := h.store.DeleteProblem(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Problem not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to delete problem")
		return
	}

	// 级联失败不回滚内容删除，收藏行留作悬挂引用，
	// 列表展示依赖 cached_title 快照，不影响读路径
	if err := h.bookmarks.CascadeDelete(problem.ID, models.ItemTypeProblem); err != nil {
		logger.L().Warn("bookmark cascade cleanup failed",
			zap.String("item_id", problem.ID),
			zap.String("item_type", string(models.ItemTypeProblem)),
			zap.Error(err))
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message": "Problem deleted successfully",
		"problem": problem,
	})
}
