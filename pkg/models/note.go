package models

import "time"

// Note 学习笔记
type Note struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Category    string    `json:"category" db:"category"`
	Tags        []string  `json:"tags" db:"tags"`
	Description string    `json:"description,omitempty" db:"description"`
	Content     string    `json:"content" db:"content"`
	AuthorID    string    `json:"author_id,omitempty" db:"author_id"`
	AuthorName  string    `json:"author_name,omitempty" db:"author_name"`
	Bookmarked  bool      `json:"bookmarked" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NoteCreateRequest 创建笔记的请求体
type NoteCreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Content     string   `json:"content" validate:"required"`
}

// NoteUpdateRequest 更新笔记的请求体
type NoteUpdateRequest struct {
	Title       *string  `json:"title"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
}

// NoteFilter 列表查询过滤条件
type NoteFilter struct {
	Category string
	Search   string
}
