package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ashiknm/dsa-backend/pkg/models"
)

// PostgresStore PostgreSQL数据库实现
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore 创建PostgreSQL数据库实例
func NewPostgresStore(dsn string) Store {
	// 尝试多种连接策略，兼容 Neon/pgBouncer 这类池化代理
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)
	strategies := []string{
		addConnectionParams(dsn, "prefer_simple_protocol=true"),
		addConnectionParams(dsn, "prefer_simple_protocol=true&connect_timeout=10"),
		addConnectionParams(dsn, "sslmode=require&prefer_simple_protocol=true"),
		dsn, // 最后尝试原始DSN
	}

	var db *sql.DB
	var err error

	for i, strategy := range strategies {
		fmt.Printf("🔄 Trying connection strategy %d...\n", i+1)

		db, err = sql.Open("postgres", strategy)
		if err != nil {
			fmt.Printf("❌ Strategy %d failed to open: %v\n", i+1, err)
			continue
		}

		// 设置连接池参数（主要池化由 Neon/pgBouncer 负责）
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(2 * time.Minute)

		// 测试连接
		if err = db.Ping(); err != nil {
			fmt.Printf("❌ Strategy %d failed to ping: %v\n", i+1, err)
			db.Close()
			continue
		}

		fmt.Printf("✅ PostgreSQL connection established successfully with strategy %d\n", i+1)
		return &PostgresStore{db: db}
	}

	// 所有策略都失败了
	panic(fmt.Sprintf("Failed to connect to PostgreSQL with all strategies. Last error: %v", err))
}

// addConnectionParams 添加连接参数到DSN
func addConnectionParams(dsn, params string) string {
	if params == "" {
		return dsn
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}

	return dsn + separator + params
}

// ==================== Users ====================

// GetUserByEmail 根据邮箱获取用户
func (s *PostgresStore) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, COALESCE(name,''), COALESCE(password_hash,''), COALESCE(role,'user'), created_at, updated_at
		FROM users
		WHERE email = $1
	`
	var u models.User
	err := s.db.QueryRow(query, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// CreateUser 创建用户
func (s *PostgresStore) CreateUser(user *models.User) error {
	if user.Role == "" {
		user.Role = "user"
	}
	query := `
		INSERT INTO users (email, name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRow(query, user.Email, user.Name, user.Password, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ==================== Problems ====================

// ListProblems 列出题目（支持分类/难度/关键词过滤）
func (s *PostgresStore) ListProblems(filter models.ProblemFilter) ([]models.Problem, error) {
	query := `
		SELECT p.id, p.title, p.difficulty, p.category, p.tags, p.description,
		       COALESCE(p.explanation,''), COALESCE(p.code,''), COALESCE(p.test_cases,''),
		       COALESCE(u.name,'') AS author_name, p.created_at, p.updated_at
		FROM problems p
		LEFT JOIN users u ON p.author_id = u.id
		WHERE 1=1
	`
	var params []interface{}

	if filter.Category != "" {
		params = append(params, filter.Category)
		query += fmt.Sprintf(" AND p.category = $%d", len(params))
	}
	if filter.Difficulty != "" {
		params = append(params, filter.Difficulty)
		query += fmt.Sprintf(" AND p.difficulty = $%d", len(params))
	}
	if filter.Search != "" {
		params = append(params, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (p.title ILIKE $%d OR p.description ILIKE $%d)", len(params), len(params))
	}

	query += ` ORDER BY p.created_at DESC`

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query problems: %w", err)
	}
	defer rows.Close()

	var list []models.Problem
	for rows.Next() {
		var p models.Problem
		if err := rows.Scan(&p.ID, &p.Title, &p.Difficulty, &p.Category, pq.Array(&p.Tags),
			&p.Description, &p.Explanation, &p.Code, &p.TestCases, &p.AuthorName,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan problem: %w", err)
		}
		list = append(list, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating problems: %w", err)
	}
	return list, nil
}

// GetProblem 获取单个题目
func (s *PostgresStore) GetProblem(id string) (*models.Problem, error) {
	query := `
		SELECT p.id, p.title, p.difficulty, p.category, p.tags, p.description,
		       COALESCE(p.explanation,''), COALESCE(p.code,''), COALESCE(p.test_cases,''),
		       COALESCE(u.name,'') AS author_name, p.created_at, p.updated_at
		FROM problems p
		LEFT JOIN users u ON p.author_id = u.id
		WHERE p.id = $1
	`
	var p models.Problem
	err := s.db.QueryRow(query, id).Scan(&p.ID, &p.Title, &p.Difficulty, &p.Category,
		pq.Array(&p.Tags), &p.Description, &p.Explanation, &p.Code, &p.TestCases,
		&p.AuthorName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	return &p, nil
}

// CreateProblem 创建题目
func (s *PostgresStore) CreateProblem(p *models.Problem) error {
	query := `
		INSERT INTO problems (title, difficulty, category, tags, description, explanation, code, test_cases, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRow(query, p.Title, p.Difficulty, p.Category, pq.Array(p.Tags),
		p.Description, p.Explanation, p.Code, p.TestCases, nullIfEmpty(p.AuthorID)).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}
	return nil
}

// UpdateProblem 部分更新题目（未提供的字段保持原值）
func (s *PostgresStore) UpdateProblem(id string, req *models.ProblemUpdateRequest) (*models.Problem, error) {
	query := `
		UPDATE problems
		SET title = COALESCE($1, title),
		    difficulty = COALESCE($2, difficulty),
		    category = COALESCE($3, category),
		    tags = COALESCE($4::text[], tags),
		    description = COALESCE($5, description),
		    explanation = COALESCE($6, explanation),
		    code = COALESCE($7, code),
		    test_cases = COALESCE($8, test_cases),
		    updated_at = NOW()
		WHERE id = $9
		RETURNING id, title, difficulty, category, tags, description,
		          COALESCE(explanation,''), COALESCE(code,''), COALESCE(test_cases,''),
		          created_at, updated_at
	`
	var p models.Problem
	err := s.db.QueryRow(query, req.Title, req.Difficulty, req.Category, pq.Array(req.Tags),
		req.Description, req.Explanation, req.Code, req.TestCases, id).
		Scan(&p.ID, &p.Title, &p.Difficulty, &p.Category, pq.Array(&p.Tags), &p.Description,
			&p.Explanation, &p.Code, &p.TestCases, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}
	return &p, nil
}

// DeleteProblem 删除题目，返回被删除的行（id 和标题）
func (s *PostgresStore) DeleteProblem(id string) (*models.Problem, error) {
	var p models.Problem
	err := s.db.QueryRow(`DELETE FROM problems WHERE id = $1 RETURNING id, title`, id).
		Scan(&p.ID, &p.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete problem: %w", err)
	}
	return &p, nil
}

// ==================== Notes ====================

// ListNotes 列出笔记
func (s *PostgresStore) ListNotes(filter models.NoteFilter) ([]models.Note, error) {
	query := `
		SELECT n.id, n.title, n.category, n.tags, COALESCE(n.description,''), n.content,
		       COALESCE(u.name,'') AS author_name, n.created_at, n.updated_at
		FROM notes n
		LEFT JOIN users u ON n.author_id = u.id
		WHERE 1=1
	`
	var params []interface{}

	if filter.Category != "" {
		params = append(params, filter.Category)
		query += fmt.Sprintf(" AND n.category = $%d", len(params))
	}
	if filter.Search != "" {
		params = append(params, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (n.title ILIKE $%d OR n.description ILIKE $%d OR n.content ILIKE $%d)",
			len(params), len(params), len(params))
	}

	query += ` ORDER BY n.created_at DESC`

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var list []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Category, pq.Array(&n.Tags), &n.Description,
			&n.Content, &n.AuthorName, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		list = append(list, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return list, nil
}

// GetNote 获取单个笔记
func (s *PostgresStore) GetNote(id string) (*models.Note, error) {
	query := `
		SELECT n.id, n.title, n.category, n.tags, COALESCE(n.description,''), n.content,
		       COALESCE(u.name,'') AS author_name, n.created_at, n.updated_at
		FROM notes n
		LEFT JOIN users u ON n.author_id = u.id
		WHERE n.id = $1
	`
	var n models.Note
	err := s.db.QueryRow(query, id).Scan(&n.ID, &n.Title, &n.Category, pq.Array(&n.Tags),
		&n.Description, &n.Content, &n.AuthorName, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &n, nil
}

// CreateNote 创建笔记
func (s *PostgresStore) CreateNote(n *models.Note) error {
	query := `
		INSERT INTO notes (title, category, tags, description, content, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRow(query, n.Title, n.Category, pq.Array(n.Tags), n.Description,
		n.Content, nullIfEmpty(n.AuthorID)).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// UpdateNote 部分更新笔记
func (s *PostgresStore) UpdateNote(id string, req *models.NoteUpdateRequest) (*models.Note, error) {
	query := `
		UPDATE notes
		SET title = COALESCE($1, title),
		    category = COALESCE($2, category),
		    tags = COALESCE($3::text[], tags),
		    description = COALESCE($4, description),
		    content = COALESCE($5, content),
		    updated_at = NOW()
		WHERE id = $6
		RETURNING id, title, category, tags, COALESCE(description,''), content, created_at, updated_at
	`
	var n models.Note
	err := s.db.QueryRow(query, req.Title, req.Category, pq.Array(req.Tags),
		req.Description, req.Content, id).
		Scan(&n.ID, &n.Title, &n.Category, pq.Array(&n.Tags), &n.Description, &n.Content,
			&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return &n, nil
}

// DeleteNote 删除笔记
func (s *PostgresStore) DeleteNote(id string) (*models.Note, error) {
	var n models.Note
	err := s.db.QueryRow(`DELETE FROM notes WHERE id = $1 RETURNING id, title`, id).
		Scan(&n.ID, &n.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}
	return &n, nil
}

// ==================== Interviews ====================

// ListInterviews 列出面试题集
func (s *PostgresStore) ListInterviews(filter models.InterviewFilter) ([]models.Interview, error) {
	query := `
		SELECT i.id, i.title, i.category, i.tags, COALESCE(i.description,''), i.content,
		       COALESCE(u.name,'') AS author_name, i.created_at, i.updated_at
		FROM interviews i
		LEFT JOIN users u ON i.author_id = u.id
		WHERE 1=1
	`
	var params []interface{}

	if filter.Category != "" {
		params = append(params, filter.Category)
		query += fmt.Sprintf(" AND i.category = $%d", len(params))
	}
	if filter.Search != "" {
		params = append(params, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (i.title ILIKE $%d OR i.description ILIKE $%d OR i.content ILIKE $%d)",
			len(params), len(params), len(params))
	}

	query += ` ORDER BY i.created_at DESC`

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interviews: %w", err)
	}
	defer rows.Close()

	var list []models.Interview
	for rows.Next() {
		var iv models.Interview
		if err := rows.Scan(&iv.ID, &iv.Title, &iv.Category, pq.Array(&iv.Tags), &iv.Description,
			&iv.Content, &iv.AuthorName, &iv.CreatedAt, &iv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		list = append(list, iv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating interviews: %w", err)
	}
	return list, nil
}

// GetInterview 获取单个面试题集
func (s *PostgresStore) GetInterview(id string) (*models.Interview, error) {
	query := `
		SELECT i.id, i.title, i.category, i.tags, COALESCE(i.description,''), i.content,
		       COALESCE(u.name,'') AS author_name, i.created_at, i.updated_at
		FROM interviews i
		LEFT JOIN users u ON i.author_id = u.id
		WHERE i.id = $1
	`
	var iv models.Interview
	err := s.db.QueryRow(query, id).Scan(&iv.ID, &iv.Title, &iv.Category, pq.Array(&iv.Tags),
		&iv.Description, &iv.Content, &iv.AuthorName, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return &iv, nil
}

// CreateInterview 创建面试题集
func (s *PostgresStore) CreateInterview(iv *models.Interview) error {
	query := `
		INSERT INTO interviews (title, category, tags, description, content, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRow(query, iv.Title, iv.Category, pq.Array(iv.Tags), iv.Description,
		iv.Content, nullIfEmpty(iv.AuthorID)).
		Scan(&iv.ID, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

// UpdateInterview 部分更新面试题集
func (s *PostgresStore) UpdateInterview(id string, req *models.InterviewUpdateRequest) (*models.Interview, error) {
	query := `
		UPDATE interviews
		SET title = COALESCE($1, title),
		    category = COALESCE($2, category),
		    tags = COALESCE($3::text[], tags),
		    description = COALESCE($4, description),
		    content = COALESCE($5, content),
		    updated_at = NOW()
		WHERE id = $6
		RETURNING id, title, category, tags, COALESCE(description,''), content, created_at, updated_at
	`
	var iv models.Interview
	err := s.db.QueryRow(query, req.Title, req.Category, pq.Array(req.Tags),
		req.Description, req.Content, id).
		Scan(&iv.ID, &iv.Title, &iv.Category, pq.Array(&iv.Tags), &iv.Description, &iv.Content,
			&iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}
	return &iv, nil
}

// DeleteInterview 删除面试题集
func (s *PostgresStore) DeleteInterview(id string) (*models.Interview, error) {
	var iv models.Interview
	err := s.db.QueryRow(`DELETE FROM interviews WHERE id = $1 RETURNING id, title`, id).
		Scan(&iv.ID, &iv.Title)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete interview: %w", err)
	}
	return &iv, nil
}

// ==================== Resolver lookups ====================

// FindContentIDByTitle 按标题精确匹配（大小写不敏感）
// 多条命中时按 id 字典序取第一条，保证平局可复现
func (s *PostgresStore) FindContentIDByTitle(itemType models.ItemType, title string) (string, error) {
	table := itemType.TableName()
	if table == "" {
		return "", fmt.Errorf("invalid item type: %s", itemType)
	}
	query := fmt.Sprintf(`SELECT id FROM %s WHERE LOWER(title) = LOWER($1) ORDER BY id LIMIT 1`, table)

	var id string
	err := s.db.QueryRow(query, title).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to find %s by title: %w", itemType, err)
	}
	return id, nil
}

// FindContentIDByText 宽松匹配：标题或分类的子串，或标签的精确元素
func (s *PostgresStore) FindContentIDByText(itemType models.ItemType, text string) (string, error) {
	table := itemType.TableName()
	if table == "" {
		return "", fmt.Errorf("invalid item type: %s", itemType)
	}
	query := fmt.Sprintf(`
		SELECT id FROM %s
		WHERE LOWER(title) LIKE LOWER($1) OR
		      LOWER(category) LIKE LOWER($1) OR
		      $2 = ANY(tags)
		ORDER BY id LIMIT 1
	`, table)

	var id string
	err := s.db.QueryRow(query, "%"+text+"%", text).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to find %s by text: %w", itemType, err)
	}
	return id, nil
}

// GetContentTitle 获取内容条目的当前标题（收藏时做标题快照用）
func (s *PostgresStore) GetContentTitle(itemType models.ItemType, id string) (string, error) {
	table := itemType.TableName()
	if table == "" {
		return "", fmt.Errorf("invalid item type: %s", itemType)
	}

	var title string
	err := s.db.QueryRow(fmt.Sprintf(`SELECT title FROM %s WHERE id = $1`, table), id).Scan(&title)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s title: %w", itemType, err)
	}
	return title, nil
}

// ==================== Bookmarks ====================

// InsertBookmark 插入收藏
// 唯一约束 (user_id, item_id, item_type) + DO NOTHING：并发下重复插入是无害的空操作
func (s *PostgresStore) InsertBookmark(userID, itemID string, itemType models.ItemType, cachedTitle string) (bool, error) {
	query := `
		INSERT INTO bookmarks (user_id, item_id, item_type, cached_title)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, item_id, item_type) DO NOTHING
	`
	result, err := s.db.Exec(query, userID, itemID, string(itemType), cachedTitle)
	if err != nil {
		return false, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteBookmarkByItem 按条目删除收藏
func (s *PostgresStore) DeleteBookmarkByItem(userID, itemID string, itemType models.ItemType) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM bookmarks WHERE user_id = $1 AND item_id = $2 AND item_type = $3`,
		userID, itemID, string(itemType),
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteBookmarkByID 按收藏行 id 删除（带 user_id 约束防止越权）
func (s *PostgresStore) DeleteBookmarkByID(userID, bookmarkID string) (*models.Bookmark, error) {
	var b models.Bookmark
	var itemType string
	err := s.db.QueryRow(
		`DELETE FROM bookmarks WHERE id = $1 AND user_id = $2 RETURNING id, item_id, item_type`,
		bookmarkID, userID,
	).Scan(&b.ID, &b.ItemID, &itemType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	b.UserID = userID
	b.ItemType = models.ItemType(itemType)
	return &b, nil
}

// HasBookmark 检查收藏是否存在
func (s *PostgresStore) HasBookmark(userID, itemID string, itemType models.ItemType) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND item_id = $2 AND item_type = $3)`,
		userID, itemID, string(itemType),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return exists, nil
}

// ListBookmarks 列出用户收藏（可选类型过滤），按创建时间倒序
// 只读 cached_title，不回查内容表：源条目被删除的收藏仍然返回
func (s *PostgresStore) ListBookmarks(userID string, itemType *models.ItemType) ([]models.Bookmark, error) {
	query := `
		SELECT id, user_id, item_id, item_type, cached_title, created_at
		FROM bookmarks
		WHERE user_id = $1
	`
	params := []interface{}{userID}

	if itemType != nil {
		params = append(params, string(*itemType))
		query += fmt.Sprintf(" AND item_type = $%d", len(params))
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var list []models.Bookmark
	for rows.Next() {
		var b models.Bookmark
		var t string
		if err := rows.Scan(&b.ID, &b.UserID, &b.ItemID, &t, &b.CachedTitle, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		b.ItemType = models.ItemType(t)
		list = append(list, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarks: %w", err)
	}
	return list, nil
}

// BookmarkedItemIDs 批量成员查询：一条 ANY 查询代替逐条存在性检查
func (s *PostgresStore) BookmarkedItemIDs(userID string, itemType models.ItemType, itemIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	rows, err := s.db.Query(
		`SELECT item_id FROM bookmarks WHERE user_id = $1 AND item_type = $2 AND item_id = ANY($3)`,
		userID, string(itemType), pq.Array(itemIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarked ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bookmarked id: %w", err)
		}
		result[id] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmarked ids: %w", err)
	}
	return result, nil
}

// DeleteBookmarksForItem 内容条目被删除时级联清理所有用户的收藏
func (s *PostgresStore) DeleteBookmarksForItem(itemID string, itemType models.ItemType) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM bookmarks WHERE item_id = $1 AND item_type = $2`,
		itemID, string(itemType),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cascade delete bookmarks: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected > 0 {
		fmt.Printf("🗑️ Cascade deleted %d bookmark(s) for %s %s\n", affected, itemType, itemID)
	}
	return affected, nil
}

// ==================== Admin ====================

// Stats 各表行数统计
func (s *PostgresStore) Stats() (map[string]int, error) {
	stats := make(map[string]int)
	for _, table := range []string{"problems", "notes", "interviews", "users", "bookmarks"} {
		var count int
		if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

// HealthCheck 健康检查
func (s *PostgresStore) HealthCheck() error {
	return s.db.Ping()
}

// Close 关闭连接
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// nullIfEmpty 空字符串转为 NULL（外键列用）
func nullIfEmpty(v string) interface{} {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
