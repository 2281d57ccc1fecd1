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

// NoteHandler 笔记处理器
type NoteHandler struct {
	config    *config.Config
	store     database.Store
	bookmarks *bookmarks.Service
}

// NewNoteHandler 创建笔记处理器
func NewNoteHandler(cfg *config.Config, store database.Store, svc *bookmarks.Service) *NoteHandler {
	return &NoteHandler{
		config:    cfg,
		store:     store,
		bookmarks: svc,
	}
}

// List 获取笔记列表
// GET /api/notes?category=&search=
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.NoteFilter{
		Category: utils.GetQueryParam(r, "category", ""),
		Search:   utils.GetQueryParam(r, "search", ""),
	}

	notes, err := h.store.ListNotes(filter)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch notes")
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}

	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		ids := make([]string, len(notes))
		for i := range notes {
			ids[i] = notes[i].ID
		}
		marked, err := h.bookmarks.BookmarkedIDs(user.ID, models.ItemTypeNote, ids)
		if err == nil {
			for i := range notes {
				notes[i].Bookmarked = marked[notes[i].ID]
			}
		}
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"notes": notes,
		"count": len(notes),
	})
}

// Get 获取单个笔记
// GET /api/notes/{id}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	note, err := h.store.GetNote(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Note not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch note")
		return
	}

	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		marked, err := h.bookmarks.IsBookmarked(user.ID, note.ID, models.ItemTypeNote)
		if err == nil {
			note.Bookmarked = marked
		}
	}

	utils.WriteSuccessResponse(w, note)
}

// Create 创建笔记
// POST /api/notes（需要登录）
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	var req models.NoteCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Title == "" || req.Category == "" || req.Content == "" {
		utils.WriteValidationErrorResponse(w, "title, category and content are required")
		return
	}

	note := &models.Note{
		Title:       req.Title,
		Category:    req.Category,
		Tags:        req.Tags,
		Description: req.Description,
		Content:     req.Content,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
	}

	if err := h.store.CreateNote(note); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create note")
		return
	}

	utils.WriteCreatedResponse(w, note)
}

// Update 更新笔记
// PUT /api/notes/{id}（需要登录）
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	var req models.NoteUpdateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	note, err := h.store.UpdateNote(id, &req)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Note not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to update note")
		return
	}

	utils.WriteSuccessResponse(w, note)
}

// Delete 删除笔记并级联清理指向它的收藏
// DELETE /api/notes/{id}（需要登录）
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		utils.WriteUnauthorizedResponse(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	note, err := h.store.DeleteNote(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Note not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to delete note")
		return
	}

	if err := h.bookmarks.CascadeDelete(note.ID, models.ItemTypeNote); err != nil {
		logger.L().Warn("bookmark cascade cleanup failed",
			zap.String("item_id", note.ID),
			zap.String("item_type", string(models.ItemTypeNote)),
			zap.Error(err))
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"message": "Note deleted successfully",
		"note":    note,
	})
}
