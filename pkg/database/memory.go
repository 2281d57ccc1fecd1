package database

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ashiknm/dsa-backend/pkg/models"
)

// MemoryStore 内存数据库实现
// 开发环境缺省实现，也是测试套件使用的替身。
// 与 PostgresStore 遵守同一契约：未命中返回 ErrNotFound，
// 解析查询的平局按 id 字典序，收藏插入冲突时返回 inserted=false
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]*models.User
	problems   map[string]*models.Problem
	notes      map[string]*models.Note
	interviews map[string]*models.Interview
	bookmarks  map[string]*models.Bookmark // key: bookmark id
}

// NewMemoryStore 创建内存数据库实例
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]*models.User),
		problems:   make(map[string]*models.Problem),
		notes:      make(map[string]*models.Note),
		interviews: make(map[string]*models.Interview),
		bookmarks:  make(map[string]*models.Bookmark),
	}
}

// ==================== Users ====================

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = "user"
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// ==================== Problems ====================

func (m *MemoryStore) ListProblems(filter models.ProblemFilter) ([]models.Problem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.Problem
	for _, p := range m.problems {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && p.Difficulty != filter.Difficulty {
			continue
		}
		if filter.Search != "" && !containsFold(p.Title, filter.Search) && !containsFold(p.Description, filter.Search) {
			continue
		}
		list = append(list, *p)
	}
	sortNewestFirst(list, func(p models.Problem) time.Time { return p.CreatedAt })
	return list, nil
}

func (m *MemoryStore) GetProblem(id string) (*models.Problem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.problems[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *MemoryStore) CreateProblem(p *models.Problem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	copied := *p
	m.problems[p.ID] = &copied
	return nil
}

func (m *MemoryStore) UpdateProblem(id string, req *models.ProblemUpdateRequest) (*models.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyString(&p.Title, req.Title)
	applyString(&p.Difficulty, req.Difficulty)
	applyString(&p.Category, req.Category)
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	applyString(&p.Description, req.Description)
	applyString(&p.Explanation, req.Explanation)
	applyString(&p.Code, req.Code)
	applyString(&p.TestCases, req.TestCases)
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

func (m *MemoryStore) DeleteProblem(id string) (*models.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.problems, id)
	return &models.Problem{ID: p.ID, Title: p.Title}, nil
}

// ==================== Notes ====================

func (m *MemoryStore) ListNotes(filter models.NoteFilter) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.Note
	for _, n := range m.notes {
		if filter.Category != "" && n.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !containsFold(n.Title, filter.Search) &&
			!containsFold(n.Description, filter.Search) && !containsFold(n.Content, filter.Search) {
			continue
		}
		list = append(list, *n)
	}
	sortNewestFirst(list, func(n models.Note) time.Time { return n.CreatedAt })
	return list, nil
}

func (m *MemoryStore) GetNote(id string) (*models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *MemoryStore) CreateNote(n *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	copied := *n
	m.notes[n.ID] = &copied
	return nil
}

func (m *MemoryStore) UpdateNote(id string, req *models.NoteUpdateRequest) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyString(&n.Title, req.Title)
	applyString(&n.Category, req.Category)
	if req.Tags != nil {
		n.Tags = req.Tags
	}
	applyString(&n.Description, req.Description)
	applyString(&n.Content, req.Content)
	n.UpdatedAt = time.Now()
	copied := *n
	return &copied, nil
}

func (m *MemoryStore) DeleteNote(id string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.notes, id)
	return &models.Note{ID: n.ID, Title: n.Title}, nil
}

// ==================== Interviews ====================

func (m *MemoryStore) ListInterviews(filter models.InterviewFilter) ([]models.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []models.Interview
	for _, iv := range m.interviews {
		if filter.Category != "" && iv.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !containsFold(iv.Title, filter.Search) &&
			!containsFold(iv.Description, filter.Search) && !containsFold(iv.Content, filter.Search) {
			continue
		}
		list = append(list, *iv)
	}
	sortNewestFirst(list, func(iv models.Interview) time.Time { return iv.CreatedAt })
	return list, nil
}

func (m *MemoryStore) GetInterview(id string) (*models.Interview, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *iv
	return &copied, nil
}

func (m *MemoryStore) CreateInterview(iv *models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	now := time.Now()
	iv.CreatedAt = now
	iv.UpdatedAt = now
	copied := *iv
	m.interviews[iv.ID] = &copied
	return nil
}

func (m *MemoryStore) UpdateInterview(id string, req *models.InterviewUpdateRequest) (*models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	applyString(&iv.Title, req.Title)
	applyString(&iv.Category, req.Category)
	if req.Tags != nil {
		iv.Tags = req.Tags
	}
	applyString(&iv.Description, req.Description)
	applyString(&iv.Content, req.Content)
	iv.UpdatedAt = time.Now()
	copied := *iv
	return &copied, nil
}

func (m *MemoryStore) DeleteInterview(id string) (*models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	iv, ok := m.interviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.interviews, id)
	return &models.Interview{ID: iv.ID, Title: iv.Title}, nil
}

// ==================== Resolver lookups ====================

// contentRefs 按 id 字典序返回某类型的全部条目投影，保证平局可复现
func (m *MemoryStore) contentRefs(itemType models.ItemType) []models.ContentRef {
	var refs []models.ContentRef
	switch itemType {
	case models.ItemTypeProblem:
		for _, p := range m.problems {
			refs = append(refs, models.ContentRef{ID: p.ID, Title: p.Title, Category: p.Category, Tags: p.Tags})
		}
	case models.ItemTypeNote:
		for _, n := range m.notes {
			refs = append(refs, models.ContentRef{ID: n.ID, Title: n.Title, Category: n.Category, Tags: n.Tags})
		}
	case models.ItemTypeInterview:
		for _, iv := range m.interviews {
			refs = append(refs, models.ContentRef{ID: iv.ID, Title: iv.Title, Category: iv.Category, Tags: iv.Tags})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs
}

func (m *MemoryStore) FindContentIDByTitle(itemType models.ItemType, title string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ref := range m.contentRefs(itemType) {
		if strings.EqualFold(ref.Title, title) {
			return ref.ID, nil
		}
	}
	return "", ErrNotFound
}

func (m *MemoryStore) FindContentIDByText(itemType models.ItemType, text string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ref := range m.contentRefs(itemType) {
		if containsFold(ref.Title, text) || containsFold(ref.Category, text) {
			return ref.ID, nil
		}
		for _, tag := range ref.Tags {
			if tag == text {
				return ref.ID, nil
			}
		}
	}
	return "", ErrNotFound
}

func (m *MemoryStore) GetContentTitle(itemType models.ItemType, id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch itemType {
	case models.ItemTypeProblem:
		if p, ok := m.problems[id]; ok {
			return p.Title, nil
		}
	case models.ItemTypeNote:
		if n, ok := m.notes[id]; ok {
			return n.Title, nil
		}
	case models.ItemTypeInterview:
		if iv, ok := m.interviews[id]; ok {
			return iv.Title, nil
		}
	}
	return "", ErrNotFound
}

// ==================== Bookmarks ====================

func (m *MemoryStore) InsertBookmark(userID, itemID string, itemType models.ItemType, cachedTitle string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// 唯一约束：同一三元组已存在则空操作
	for _, b := range m.bookmarks {
		if b.UserID == userID && b.ItemID == itemID && b.ItemType == itemType {
			return false, nil
		}
	}
	b := &models.Bookmark{
		ID:          uuid.NewString(),
		UserID:      userID,
		ItemID:      itemID,
		ItemType:    itemType,
		CachedTitle: cachedTitle,
		CreatedAt:   time.Now(),
	}
	m.bookmarks[b.ID] = b
	return true, nil
}

func (m *MemoryStore) DeleteBookmarkByItem(userID, itemID string, itemType models.ItemType) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.bookmarks {
		if b.UserID == userID && b.ItemID == itemID && b.ItemType == itemType {
			delete(m.bookmarks, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) DeleteBookmarkByID(userID, bookmarkID string) (*models.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookmarks[bookmarkID]
	if !ok || b.UserID != userID {
		return nil, ErrNotFound
	}
	delete(m.bookmarks, bookmarkID)
	copied := *b
	return &copied, nil
}

func (m *MemoryStore) HasBookmark(userID, itemID string, itemType models.ItemType) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookmarks {
		if b.UserID == userID && b.ItemID == itemID && b.ItemType == itemType {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListBookmarks(userID string, itemType *models.ItemType) ([]models.Bookmark, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var list []models.Bookmark
	for _, b := range m.bookmarks {
		if b.UserID != userID {
			continue
		}
		if itemType != nil && b.ItemType != *itemType {
			continue
		}
		list = append(list, *b)
	}
	sortNewestFirst(list, func(b models.Bookmark) time.Time { return b.CreatedAt })
	return list, nil
}

func (m *MemoryStore) BookmarkedItemIDs(userID string, itemType models.ItemType, itemIDs []string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	result := make(map[string]bool, len(itemIDs))
	for _, b := range m.bookmarks {
		if b.UserID == userID && b.ItemType == itemType && wanted[b.ItemID] {
			result[b.ItemID] = true
		}
	}
	return result, nil
}

func (m *MemoryStore) DeleteBookmarksForItem(itemID string, itemType models.ItemType) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for id, b := range m.bookmarks {
		if b.ItemID == itemID && b.ItemType == itemType {
			delete(m.bookmarks, id)
			deleted++
		}
	}
	return deleted, nil
}

// ==================== Admin ====================

func (m *MemoryStore) Stats() (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]int{
		"problems":   len(m.problems),
		"notes":      len(m.notes),
		"interviews": len(m.interviews),
		"users":      len(m.users),
		"bookmarks":  len(m.bookmarks),
	}, nil
}

// CreateTables 内存实现无需建表
func (m *MemoryStore) CreateTables() error {
	return nil
}

// SeedData 插入与 PostgresStore 相同的示例数据
func (m *MemoryStore) SeedData() error {
	admin := &models.User{
		ID:       seedAdminID,
		Email:    "admin@example.com",
		Name:     "Admin User",
		Password: "admin123",
		Role:     "admin",
	}
	if _, err := m.GetUserByEmail(admin.Email); err != nil {
		if err := m.CreateUser(admin); err != nil {
			return err
		}
	}

	problems := []*models.Problem{
		{
			Title: "Two Sum", Difficulty: "Easy", Category: "Array",
			Tags:        []string{"array", "hash-table"},
			Description: "Given an array of integers nums and an integer target, return indices of the two numbers such that they add up to target.",
			AuthorID:    admin.ID,
		},
		{
			Title: "Reverse String", Difficulty: "Easy", Category: "String",
			Tags:        []string{"string", "two-pointers"},
			Description: "Write a function that reverses a string. The input string is given as an array of characters s.",
			AuthorID:    admin.ID,
		},
	}
	for _, p := range problems {
		if _, err := m.FindContentIDByTitle(models.ItemTypeProblem, p.Title); err == nil {
			continue
		}
		if err := m.CreateProblem(p); err != nil {
			return err
		}
	}

	notes := []*models.Note{
		{
			Title: "JavaScript Closures", Category: "JavaScript",
			Tags:        []string{"javascript", "closures", "scope"},
			Description: "Understanding closures in JavaScript",
			Content:     "A closure is a function that has access to variables in its outer scope even after the outer function has returned.",
			AuthorID:    admin.ID,
		},
	}
	for _, n := range notes {
		if _, err := m.FindContentIDByTitle(models.ItemTypeNote, n.Title); err == nil {
			continue
		}
		if err := m.CreateNote(n); err != nil {
			return err
		}
	}

	interviews := []*models.Interview{
		{
			Title: "React Hooks Interview Questions", Category: "React",
			Tags:        []string{"react", "hooks", "interview"},
			Description: "Common React Hooks interview questions and answers",
			Content:     "React Hooks are functions that let you use state and other React features in functional components.",
			AuthorID:    admin.ID,
		},
	}
	for _, iv := range interviews {
		if _, err := m.FindContentIDByTitle(models.ItemTypeInterview, iv.Title); err == nil {
			continue
		}
		if err := m.CreateInterview(iv); err != nil {
			return err
		}
	}

	return nil
}

// HealthCheck 内存实现始终健康
func (m *MemoryStore) HealthCheck() error {
	return nil
}

// Close 内存实现无需关闭
func (m *MemoryStore) Close() error {
	return nil
}

// ==================== helpers ====================

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func sortNewestFirst[T any](list []T, createdAt func(T) time.Time) {
	sort.SliceStable(list, func(i, j int) bool {
		return createdAt(list[i]).After(createdAt(list[j]))
	})
}
