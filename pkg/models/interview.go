package models

import "time"

// Interview 面试题集
type Interview struct {
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

// InterviewCreateRequest 创建面试题集的请求体
type InterviewCreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Content     string   `json:"content" validate:"required"`
}

// InterviewUpdateRequest 更新面试题集的请求体
type InterviewUpdateRequest struct {
	Title       *string  `json:"title"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
}

// InterviewFilter 列表查询过滤条件
type InterviewFilter struct {
	Category string
	Search   string
}
