package database

import (
	"errors"
	"fmt"

	"github.com/ashiknm/dsa-backend/pkg/models"
)

// ErrNotFound 查询未命中。调用方用 errors.Is 与存储故障区分
var ErrNotFound = errors.New("not found")

// Store 定义数据库访问接口
type Store interface {
	// 用户管理
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error

	// 题目管理
	ListProblems(filter models.ProblemFilter) ([]models.Problem, error)
	GetProblem(id string) (*models.Problem, error)
	CreateProblem(p *models.Problem) error
	UpdateProblem(id string, req *models.ProblemUpdateRequest) (*models.Problem, error)
	DeleteProblem(id string) (*models.Problem, error)

	// 笔记管理
	ListNotes(filter models.NoteFilter) ([]models.Note, error)
	GetNote(id string) (*models.Note, error)
	CreateNote(n *models.Note) error
	UpdateNote(id string, req *models.NoteUpdateRequest) (*models.Note, error)
	DeleteNote(id string) (*models.Note, error)

	// 面试题集管理
	ListInterviews(filter models.InterviewFilter) ([]models.Interview, error)
	GetInterview(id string) (*models.Interview, error)
	CreateInterview(iv *models.Interview) error
	UpdateInterview(id string, req *models.InterviewUpdateRequest) (*models.Interview, error)
	DeleteInterview(id string) (*models.Interview, error)

	// 标识解析查询（resolver 使用）
	// 未命中返回 ErrNotFound，平局按 id 字典序取第一条
	FindContentIDByTitle(itemType models.ItemType, title string) (string, error)
	FindContentIDByText(itemType models.ItemType, text string) (string, error)
	GetContentTitle(itemType models.ItemType, id string) (string, error)

	// 收藏管理
	// InsertBookmark 依赖 (user_id, item_id, item_type) 的唯一约束，
	// 冲突时 DO NOTHING 并返回 inserted=false
	InsertBookmark(userID, itemID string, itemType models.ItemType, cachedTitle string) (inserted bool, err error)
	DeleteBookmarkByItem(userID, itemID string, itemType models.ItemType) (removed bool, err error)
	DeleteBookmarkByID(userID, bookmarkID string) (*models.Bookmark, error)
	HasBookmark(userID, itemID string, itemType models.ItemType) (bool, error)
	ListBookmarks(userID string, itemType *models.ItemType) ([]models.Bookmark, error)
	BookmarkedItemIDs(userID string, itemType models.ItemType, itemIDs []string) (map[string]bool, error)
	DeleteBookmarksForItem(itemID string, itemType models.ItemType) (int64, error)

	// 管理统计
	Stats() (map[string]int, error)

	// 建表与种子数据
	CreateTables() error
	SeedData() error

	// 健康检查
	HealthCheck() error

	// 关闭连接
	Close() error
}

// StoreConfig 数据库配置
type StoreConfig struct {
	PostgresDSN string
	Debug       bool
}

// NewStore 根据配置选择数据库实现
// 未配置 DSN 时退回内存实现（仅开发环境合理）
func NewStore(config StoreConfig) Store {
	if config.PostgresDSN != "" {
		fmt.Printf("🗄️  Using PostgreSQL database\n")
		return NewPostgresStore(config.PostgresDSN)
	}

	fmt.Printf("🧰  No POSTGRES_DSN configured, using in-memory store\n")
	return NewMemoryStore()
}
