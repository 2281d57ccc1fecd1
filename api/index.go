package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ashiknm/dsa-backend/pkg/bookmarks"
	"github.com/ashiknm/dsa-backend/pkg/config"
	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/handlers"
	customMiddleware "github.com/ashiknm/dsa-backend/pkg/middleware"
	"github.com/ashiknm/dsa-backend/pkg/utils"
)

// Handler HTTP入口点
// 单体路由模式：所有API端点集中在一个Chi路由器中管理
func Handler(w http.ResponseWriter, r *http.Request) {
	NewRouter().ServeHTTP(w, r)
}

// NewRouter 构建完整路由器（入口点和独立服务器共用）
func NewRouter() *chi.Mux {
	cfg := config.GetCached()

	store := database.GetStore(database.StoreConfig{
		PostgresDSN: cfg.PostgresDSN,
		Debug:       cfg.Debug,
	})

	router := chi.NewRouter()
	setupMiddleware(router, cfg)
	setupRoutes(router, cfg, store)
	return router
}

// setupMiddleware 设置全局中间件
func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	// 基础中间件
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(customMiddleware.Logger(cfg))
	router.Use(customMiddleware.Recovery(cfg))

	// CORS中间件
	router.Use(customMiddleware.CORS(cfg))

	// 超时与压缩
	router.Use(middleware.Timeout(25 * time.Second))
	router.Use(middleware.Compress(5))

	// 请求体上限 1MB，写请求必须是 JSON
	router.Use(customMiddleware.MaxBodySize(1 << 20))
	router.Use(customMiddleware.ContentTypeJSON)

	// 开发环境额外中间件
	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

// setupRoutes 设置所有API路由
func setupRoutes(router *chi.Mux, cfg *config.Config, store database.Store) {
	// 收藏服务被内容处理器（标注、级联删除）和收藏处理器共用
	bookmarkService := bookmarks.NewService(store)

	// 创建处理器
	healthHandler := handlers.NewHealthHandler(cfg, store)
	authHandler := handlers.NewAuthHandler(cfg, store)
	problemHandler := handlers.NewProblemHandler(cfg, store, bookmarkService)
	noteHandler := handlers.NewNoteHandler(cfg, store, bookmarkService)
	interviewHandler := handlers.NewInterviewHandler(cfg, store, bookmarkService)
	bookmarkHandler := handlers.NewBookmarkHandler(cfg, store, bookmarkService)
	adminHandler := handlers.NewAdminHandler(cfg, store)

	// 健康检查端点
	router.Get("/", healthHandler.Index)
	router.Get("/health", healthHandler.Health)

	// API路由组
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/test-db", healthHandler.TestDB)

		// 认证路由
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(customMiddleware.AuthMiddleware(cfg))
				r.Get("/me", authHandler.Me)
			})
		})

		// 内容读取路由（公开，已登录用户附带收藏标注）
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.OptionalAuthMiddleware(cfg))

			r.Get("/problems", problemHandler.List)
			r.Get("/problems/{id}", problemHandler.Get)
			r.Get("/notes", noteHandler.List)
			r.Get("/notes/{id}", noteHandler.Get)
			r.Get("/interviews", interviewHandler.List)
			r.Get("/interviews/{id}", interviewHandler.Get)
		})

		// 需要认证的路由
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.AuthMiddleware(cfg))

			// 内容写入
			r.Post("/problems", problemHandler.Create)
			r.Put("/problems/{id}", problemHandler.Update)
			r.Delete("/problems/{id}", problemHandler.Delete)

			r.Post("/notes", noteHandler.Create)
			r.Put("/notes/{id}", noteHandler.Update)
			r.Delete("/notes/{id}", noteHandler.Delete)

			r.Post("/interviews", interviewHandler.Create)
			r.Put("/interviews/{id}", interviewHandler.Update)
			r.Delete("/interviews/{id}", interviewHandler.Delete)

			// 收藏管理
			r.Route("/bookmarks", func(r chi.Router) {
				r.Post("/", bookmarkHandler.Toggle)
				r.Get("/", bookmarkHandler.List)
				r.Get("/grouped", bookmarkHandler.Grouped)
				r.Delete("/item/{itemRef}/{itemType}", bookmarkHandler.RemoveByItem)
				r.Delete("/{id}", bookmarkHandler.RemoveByID)
			})

			// 管理端
			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", adminHandler.Stats)
				r.Post("/create-tables", adminHandler.CreateTables)
				r.Post("/seed", adminHandler.Seed)
			})
		})
	})

	// 404处理
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	// 405处理
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path), "")
	})
}
