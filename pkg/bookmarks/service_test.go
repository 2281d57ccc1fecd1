package bookmarks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiknm/dsa-backend/pkg/database"
	"github.com/ashiknm/dsa-backend/pkg/models"
)

const testUserID = "550e8400-e29b-41d4-a716-446655440000"

// trackingStore 记录是否有存储访问发生，用于验证校验在存储之前
type trackingStore struct {
	*database.MemoryStore
	touched bool
}

func (s *trackingStore) FindContentIDByTitle(itemType models.ItemType, title string) (string, error) {
	s.touched = true
	return s.MemoryStore.FindContentIDByTitle(itemType, title)
}

func (s *trackingStore) FindContentIDByText(itemType models.ItemType, text string) (string, error) {
	s.touched = true
	return s.MemoryStore.FindContentIDByText(itemType, text)
}

func (s *trackingStore) HasBookmark(userID, itemID string, itemType models.ItemType) (bool, error) {
	s.touched = true
	return s.MemoryStore.HasBookmark(userID, itemID, itemType)
}

func newTestService(t *testing.T) (*Service, *database.MemoryStore, *models.Problem) {
	t.Helper()
	store := database.NewMemoryStore()
	problem := &models.Problem{
		Title: "Two Sum", Difficulty: "Easy", Category: "Array",
		Tags:        []string{"array", "hash-table"},
		Description: "Find two numbers that add up to target.",
	}
	require.NoError(t, store.CreateProblem(problem))
	return NewService(store), store, problem
}

func TestToggleAddThenRemove(t *testing.T) {
	svc, store, problem := newTestService(t)

	// 第一次切换：添加
	result, err := svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, result.Action)
	require.Len(t, result.Bookmarks.Problems, 1)
	assert.Equal(t, problem.ID, result.Bookmarks.Problems[0].ItemID)
	assert.Equal(t, "Two Sum", result.Bookmarks.Problems[0].CachedTitle)

	marked, err := store.HasBookmark(testUserID, problem.ID, models.ItemTypeProblem)
	require.NoError(t, err)
	assert.True(t, marked)

	// 第二次切换：移除
	result, err = svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, result.Action)
	assert.Equal(t, 0, result.Bookmarks.Count())

	marked, err = store.HasBookmark(testUserID, problem.ID, models.ItemTypeProblem)
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestToggleResolvesTitleReference(t *testing.T) {
	svc, _, problem := newTestService(t)

	// 标题引用解析到规范 id，收藏行存 id 而不是标题
	result, err := svc.Toggle(testUserID, "two sum", "problem")
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, result.Action)
	require.Len(t, result.Bookmarks.Problems, 1)
	assert.Equal(t, problem.ID, result.Bookmarks.Problems[0].ItemID)

	// 换一种引用形式指向同一条目：按移除处理而不是重复添加
	result, err = svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, result.Action)
}

func TestToggleValidationBeforeStorage(t *testing.T) {
	tracking := &trackingStore{MemoryStore: database.NewMemoryStore()}
	svc := NewService(tracking)

	tests := []struct {
		name     string
		itemRef  string
		itemType string
	}{
		{name: "unknown item_type", itemRef: "Two Sum", itemType: "worksheet"},
		{name: "empty item_type", itemRef: "Two Sum", itemType: ""},
		{name: "empty item_id", itemRef: "", itemType: "problem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracking.touched = false
			_, err := svc.Toggle(testUserID, tt.itemRef, tt.itemType)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.False(t, tracking.touched, "validation must reject before any storage access")
		})
	}
}

func TestToggleUnresolvedReference(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Toggle(testUserID, "No Such Problem", "problem")

	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "No Such Problem", nfe.Reference)
	assert.Contains(t, err.Error(), "problem with identifier 'No Such Problem' not found")
}

func TestToggleCanonicalIDSkipsExistenceCheck(t *testing.T) {
	// 规范 id 形式不校验存在性，标题快照退回占位值
	svc, _, _ := newTestService(t)

	ghost := "123e4567-e89b-42d3-a456-426614174000"
	result, err := svc.Toggle(testUserID, ghost, "problem")
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, result.Action)
	require.Len(t, result.Bookmarks.Problems, 1)
	assert.Equal(t, "Unknown Item", result.Bookmarks.Problems[0].CachedTitle)
}

func TestCachedTitleSurvivesItemDeletion(t *testing.T) {
	svc, store, problem := newTestService(t)

	_, err := svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)

	// 直接删除源条目（不经过级联），收藏行成为悬空引用
	_, err = store.DeleteProblem(problem.ID)
	require.NoError(t, err)

	list, err := svc.List(testUserID, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Two Sum", list[0].CachedTitle)
	assert.Equal(t, problem.ID, list[0].ItemID)
}

func TestCascadeDelete(t *testing.T) {
	svc, store, problem := newTestService(t)

	otherUser := "660e8400-e29b-41d4-a716-446655440001"
	_, err := svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)
	_, err = svc.Toggle(otherUser, problem.ID, "problem")
	require.NoError(t, err)

	require.NoError(t, svc.CascadeDelete(problem.ID, models.ItemTypeProblem))

	for _, user := range []string{testUserID, otherUser} {
		marked, err := store.HasBookmark(user, problem.ID, models.ItemTypeProblem)
		require.NoError(t, err)
		assert.False(t, marked)
	}
}

func TestRemove(t *testing.T) {
	svc, _, problem := newTestService(t)

	_, err := svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)

	result, err := svc.Remove(testUserID, problem.ID, "problem")
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, result.Action)
	assert.Equal(t, 0, result.Bookmarks.Count())

	// 再删一次：目标不存在按 not found 报告，而不是静默成功
	_, err = svc.Remove(testUserID, problem.ID, "problem")
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "bookmark", nfe.Kind)
}

func TestListFiltersByType(t *testing.T) {
	svc, store, problem := newTestService(t)

	note := &models.Note{Title: "JS Closures", Category: "JavaScript", Content: "scope chains"}
	require.NoError(t, store.CreateNote(note))

	_, err := svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)
	_, err = svc.Toggle(testUserID, note.ID, "note")
	require.NoError(t, err)

	all, err := svc.List(testUserID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	noteType := models.ItemTypeNote
	onlyNotes, err := svc.List(testUserID, &noteType)
	require.NoError(t, err)
	require.Len(t, onlyNotes, 1)
	assert.Equal(t, note.ID, onlyNotes[0].ItemID)

	// 其他用户的列表为空切片而不是 nil
	empty, err := svc.List("770e8400-e29b-41d4-a716-446655440002", nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Len(t, empty, 0)
}

func TestBookmarkedIDsBatch(t *testing.T) {
	svc, store, problem := newTestService(t)

	second := &models.Problem{Title: "Reverse String", Difficulty: "Easy", Category: "String",
		Description: "Reverse a character array."}
	require.NoError(t, store.CreateProblem(second))

	_, err := svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)

	marked, err := svc.BookmarkedIDs(testUserID, models.ItemTypeProblem,
		[]string{problem.ID, second.ID})
	require.NoError(t, err)
	assert.True(t, marked[problem.ID])
	assert.False(t, marked[second.ID])
}

func TestToggleTypeScopedMembership(t *testing.T) {
	// 同一 item_id 在不同 item_type 下是独立的收藏
	svc, store, problem := newTestService(t)

	note := &models.Note{ID: problem.ID + "-companion", Title: "Companion", Category: "Misc", Content: "x"}
	require.NoError(t, store.CreateNote(note))

	_, err := svc.Toggle(testUserID, problem.ID, "problem")
	require.NoError(t, err)

	marked, err := svc.IsBookmarked(testUserID, problem.ID, models.ItemTypeNote)
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestResolveRefSurfacesStoreFailure(t *testing.T) {
	svc := NewService(&failingLookupStore{MemoryStore: database.NewMemoryStore()})

	_, err := svc.Toggle(testUserID, "Two Sum", "problem")
	require.Error(t, err)

	var ve *ValidationError
	var nfe *NotFoundError
	assert.False(t, errors.As(err, &ve))
	assert.False(t, errors.As(err, &nfe), "storage failure must not be reported as not found")
}

type failingLookupStore struct {
	*database.MemoryStore
}

func (s *failingLookupStore) FindContentIDByTitle(itemType models.ItemType, title string) (string, error) {
	return "", errors.New("connection refused")
}
