// Package bookmarks owns the per-user bookmark relation.
//
// 切换（toggle）是唯一的状态转移：同一 (user, item, type) 三元组在
// absent/present 两态之间翻转，没有"更新"操作。唯一性由存储层约束
// 保证，应用侧不做 check-then-act 抢占。
package bookmarks

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/logger"
	"github.com/ashiknm/dsa-backend/pkg/models"
	"github.com/ashiknm/dsa-backend/pkg/resolver"
)

// unknownTitle 标题快照查询失败时的占位值
const unknownTitle = "Unknown Item"

// Action 切换结果动作
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// ValidationError 请求字段非法（如 item_type 不在封闭集合内）
// 在任何存储访问之前返回
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError 引用无法解析为已存在的内容条目或收藏
// 回显原始引用便于排查
type NotFoundError struct {
	Kind      string // "item" 或 "bookmark"
	Reference string
	ItemType  models.ItemType
}

func (e *NotFoundError) Error() string {
	if e.Kind == "bookmark" {
		return "bookmark not found"
	}
	return fmt.Sprintf("%s with identifier '%s' not found", e.ItemType, e.Reference)
}

// ToggleResult 切换响应：动作 + 切换后的完整收藏集合
// 客户端整体替换本地副本，这里返回的是当前状态的权威快照
type ToggleResult struct {
	Action    Action              `json:"action"`
	Bookmarks *models.BookmarkSet `json:"bookmarks"`
}

// Service 收藏管理器
type Service struct {
	store    database.Store
	resolver *resolver.Resolver
}

// NewService 创建收藏管理器
func NewService(store database.Store) *Service {
	return &Service{
		store:    store,
		resolver: resolver.New(store),
	}
}

// Toggle 切换收藏状态
//  1. 校验 item_type（封闭集合，未通过直接拒绝，不访问存储）
//  2. 解析引用为规范 id
//  3. 已存在 → 删除（removed）；不存在 → 快照标题后插入（added）
//  4. 重新读取完整收藏集合作为响应
func (s *Service) Toggle(userID, rawItemRef, rawItemType string) (*ToggleResult, error) {
	if rawItemRef == "" {
		return nil, &ValidationError{Message: "item_id is required"}
	}
	itemType, err := models.ParseItemType(rawItemType)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	itemID, err := s.resolveRef(rawItemRef, itemType)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.HasBookmark(userID, itemID, itemType)
	if err != nil {
		return nil, fmt.Errorf("failed to check bookmark state: %w", err)
	}

	var action Action
	if exists {
		// 删除时行数为零说明并发的另一次切换已经删掉了，
		// 目标状态一致，同样按 removed 处理
		if _, err := s.store.DeleteBookmarkByItem(userID, itemID, itemType); err != nil {
			return nil, fmt.Errorf("failed to remove bookmark: %w", err)
		}
		action = ActionRemoved
	} else {
		// 标题快照尽力而为：条目刚被删除或查询失败都退回占位值
		title, err := s.store.GetContentTitle(itemType, itemID)
		if err != nil {
			title = unknownTitle
		}
		// 唯一约束 + DO NOTHING：并发重复插入是无害空操作
		if _, err := s.store.InsertBookmark(userID, itemID, itemType, title); err != nil {
			return nil, fmt.Errorf("failed to add bookmark: %w", err)
		}
		action = ActionAdded
	}

	set, err := s.Set(userID)
	if err != nil {
		return nil, err
	}

	logger.L().Info("bookmark toggled",
		zap.String("user_id", userID),
		zap.String("item_id", itemID),
		zap.String("item_type", string(itemType)),
		zap.String("action", string(action)))

	return &ToggleResult{Action: action, Bookmarks: set}, nil
}

// Remove 仅删除（幂等端点语义：解析后确实不存在按 not found 报告）
func (s *Service) Remove(userID, rawItemRef, rawItemType string) (*ToggleResult, error) {
	itemType, err := models.ParseItemType(rawItemType)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	itemID, err := s.resolveRef(rawItemRef, itemType)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.DeleteBookmarkByItem(userID, itemID, itemType)
	if err != nil {
		return nil, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if !removed {
		return nil, &NotFoundError{Kind: "bookmark", Reference: rawItemRef, ItemType: itemType}
	}

	set, err := s.Set(userID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Action: ActionRemoved, Bookmarks: set}, nil
}

// List 列出用户收藏（可选类型过滤），按创建时间倒序
// 源条目已被删除的收藏照常返回，展示用 cached_title 快照
func (s *Service) List(userID string, itemType *models.ItemType) ([]models.Bookmark, error) {
	list, err := s.store.ListBookmarks(userID, itemType)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	if list == nil {
		list = []models.Bookmark{}
	}
	return list, nil
}

// Set 按类型分组返回用户的完整收藏集合
func (s *Service) Set(userID string) (*models.BookmarkSet, error) {
	list, err := s.store.ListBookmarks(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	set := models.NewBookmarkSet()
	for _, b := range list {
		set.Add(b)
	}
	return set, nil
}

// IsBookmarked 单条成员查询
func (s *Service) IsBookmarked(userID, itemID string, itemType models.ItemType) (bool, error) {
	return s.store.HasBookmark(userID, itemID, itemType)
}

// BookmarkedIDs 批量成员查询：一次存储往返标注整批内容列表
func (s *Service) BookmarkedIDs(userID string, itemType models.ItemType, itemIDs []string) (map[string]bool, error) {
	return s.store.BookmarkedItemIDs(userID, itemType, itemIDs)
}

// CascadeDelete 内容条目被删除时清理所有指向它的收藏
// 已有收藏行的 cached_title 不受影响（快照语义）
func (s *Service) CascadeDelete(itemID string, itemType models.ItemType) error {
	if _, err := s.store.DeleteBookmarksForItem(itemID, itemType); err != nil {
		return err
	}
	return nil
}

// resolveRef 解析引用并把解析器的三态结果映射到本包的错误类型
func (s *Service) resolveRef(rawItemRef string, itemType models.ItemType) (string, error) {
	res := s.resolver.Resolve(rawItemRef, itemType)
	switch res.Status {
	case resolver.StatusFound:
		return res.ID, nil
	case resolver.StatusNotFound:
		return "", &NotFoundError{Kind: "item", Reference: rawItemRef, ItemType: itemType}
	default:
		return "", fmt.Errorf("failed to resolve item reference: %w", res.Err)
	}
}
