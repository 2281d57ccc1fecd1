package models

import "fmt"

// ItemType 内容条目类型（封闭集合）
// 书签只允许引用这三种内容表中的一种
type ItemType string

const (
	ItemTypeProblem   ItemType = "problem"
	ItemTypeNote      ItemType = "note"
	ItemTypeInterview ItemType = "interview"
)

// ParseItemType 校验并解析 item_type，未知值返回错误
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemTypeProblem, ItemTypeNote, ItemTypeInterview:
		return ItemType(s), nil
	default:
		return "", fmt.Errorf("item_type must be 'problem', 'note', or 'interview'")
	}
}

// TableName 返回该类型对应的内容表名
func (t ItemType) TableName() string {
	switch t {
	case ItemTypeProblem:
		return "problems"
	case ItemTypeNote:
		return "notes"
	case ItemTypeInterview:
		return "interviews"
	}
	return ""
}

// Valid 检查类型是否属于封闭集合
func (t ItemType) Valid() bool {
	return t == ItemTypeProblem || t == ItemTypeNote || t == ItemTypeInterview
}

// ContentRef 内容条目的最小投影，解析器与批量标注使用
type ContentRef struct {
	ID       string   `json:"id" db:"id"`
	Title    string   `json:"title" db:"title"`
	Category string   `json:"category" db:"category"`
	Tags     []string `json:"tags" db:"tags"`
}
