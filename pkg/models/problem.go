package models

import "time"

// Problem 算法题目
type Problem struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Difficulty  string    `json:"difficulty" db:"difficulty"` // "Easy", "Medium", "Hard"
	Category    string    `json:"category" db:"category"`
	Tags        []string  `json:"tags" db:"tags"`
	Description string    `json:"description" db:"description"`
	Explanation string    `json:"explanation,omitempty" db:"explanation"`
	Code        string    `json:"code,omitempty" db:"code"`
	TestCases   string    `json:"test_cases,omitempty" db:"test_cases"`
	AuthorID    string    `json:"author_id,omitempty" db:"author_id"`
	AuthorName  string    `json:"author_name,omitempty" db:"author_name"`
	Bookmarked  bool      `json:"bookmarked" db:"-"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProblemCreateRequest 创建题目的请求体
type ProblemCreateRequest struct {
	Title       string   `json:"title" validate:"required"`
	Difficulty  string   `json:"difficulty" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Tags        []string `json:"tags"`
	Description string   `json:"description" validate:"required"`
	Explanation string   `json:"explanation"`
	Code        string   `json:"code"`
	TestCases   string   `json:"test_cases"`
}

// ProblemUpdateRequest 更新题目的请求体（所有字段可选，COALESCE 式部分更新）
type ProblemUpdateRequest struct {
	Title       *string  `json:"title"`
	Difficulty  *string  `json:"difficulty"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	Description *string  `json:"description"`
	Explanation *string  `json:"explanation"`
	Code        *string  `json:"code"`
	TestCases   *string  `json:"test_cases"`
}

// ProblemFilter 列表查询过滤条件
type ProblemFilter struct {
	Category   string
	Difficulty string
	Search     string
}

// ValidDifficulty 检查难度取值
func ValidDifficulty(d string) bool {
	return d == "Easy" || d == "Medium" || d == "Hard"
}
