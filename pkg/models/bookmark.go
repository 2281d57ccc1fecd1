package models

import "time"

// Bookmark 用户对某个内容条目的收藏
// cached_title 是创建时的标题快照：源条目被删除或改名后不会回写，
// 列表展示依赖它来容忍悬空引用
type Bookmark struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	ItemID      string    `json:"item_id" db:"item_id"`
	ItemType    ItemType  `json:"item_type" db:"item_type"`
	CachedTitle string    `json:"title" db:"cached_title"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// BookmarkSet 按类型分组的完整收藏集合
// 切换操作返回整个集合，客户端整体替换本地副本，避免增量合并逻辑
type BookmarkSet struct {
	Problems   []Bookmark `json:"problems"`
	Notes      []Bookmark `json:"notes"`
	Interviews []Bookmark `json:"interviews"`
}

// NewBookmarkSet 构造空集合（各分组为空切片而非 nil，保证 JSON 输出 []）
func NewBookmarkSet() *BookmarkSet {
	return &BookmarkSet{
		Problems:   []Bookmark{},
		Notes:      []Bookmark{},
		Interviews: []Bookmark{},
	}
}

// Add 将条目归入对应分组
func (s *BookmarkSet) Add(b Bookmark) {
	switch b.ItemType {
	case ItemTypeProblem:
		s.Problems = append(s.Problems, b)
	case ItemTypeNote:
		s.Notes = append(s.Notes, b)
	case ItemTypeInterview:
		s.Interviews = append(s.Interviews, b)
	}
}

// Count 集合内条目总数
func (s *BookmarkSet) Count() int {
	return len(s.Problems) + len(s.Notes) + len(s.Interviews)
}

// ToggleRequest 收藏切换请求体
type ToggleRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	ItemType string `json:"item_type" validate:"required"`
}
