package database

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashiknm/dsa-backend/pkg/models"
)

const testUserID = "550e8400-e29b-41d4-a716-446655440000"

func TestCRUDNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetProblem("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.UpdateNote("missing", &models.NoteUpdateRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.DeleteInterview("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetUserByEmail("ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPartialUpdateKeepsOmittedFields(t *testing.T) {
	store := NewMemoryStore()

	p := &models.Problem{
		Title: "Two Sum", Difficulty: "Easy", Category: "Array",
		Tags: []string{"array"}, Description: "original",
	}
	require.NoError(t, store.CreateProblem(p))

	newTitle := "Two Sum (updated)"
	updated, err := store.UpdateProblem(p.ID, &models.ProblemUpdateRequest{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, "Easy", updated.Difficulty)
	assert.Equal(t, "original", updated.Description)
	assert.Equal(t, []string{"array"}, updated.Tags)
}

func TestFindContentIDTieBreak(t *testing.T) {
	store := NewMemoryStore()

	// id 可控地乱序插入，命中多条时必须取 id 字典序第一条
	for _, id := range []string{"cc", "aa", "bb"} {
		require.NoError(t, store.CreateProblem(&models.Problem{
			ID: id, Title: "Binary Search", Difficulty: "Easy", Category: "Array",
			Description: "variant " + id,
		}))
	}

	got, err := store.FindContentIDByTitle(models.ItemTypeProblem, "binary search")
	require.NoError(t, err)
	assert.Equal(t, "aa", got)

	got, err = store.FindContentIDByText(models.ItemTypeProblem, "Binary")
	require.NoError(t, err)
	assert.Equal(t, "aa", got)
}

func TestFindContentIDByTextMatchesTagExactly(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.CreateProblem(&models.Problem{
		Title: "Two Sum", Difficulty: "Easy", Category: "Array",
		Tags: []string{"hash-table"}, Description: "x",
	}))

	// 标签匹配是整元素比较，不做子串
	_, err := store.FindContentIDByText(models.ItemTypeProblem, "hash")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindContentIDByText(models.ItemTypeProblem, "hash-table")
	assert.NoError(t, err)
}

func TestInsertBookmarkUniqueness(t *testing.T) {
	store := NewMemoryStore()

	inserted, err := store.InsertBookmark(testUserID, "item-1", models.ItemTypeProblem, "Two Sum")
	require.NoError(t, err)
	assert.True(t, inserted)

	// 重复插入同一三元组是无害空操作
	inserted, err = store.InsertBookmark(testUserID, "item-1", models.ItemTypeProblem, "Two Sum")
	require.NoError(t, err)
	assert.False(t, inserted)

	// 不同 item_type 是另一条收藏
	inserted, err = store.InsertBookmark(testUserID, "item-1", models.ItemTypeNote, "Two Sum")
	require.NoError(t, err)
	assert.True(t, inserted)

	list, err := store.ListBookmarks(testUserID, nil)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestInsertBookmarkConcurrentUniqueness(t *testing.T) {
	store := NewMemoryStore()

	// 并发插入同一三元组：恰好一次成功，其余是空操作
	const workers = 16
	results := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := store.InsertBookmark(testUserID, "item-1", models.ItemTypeProblem, "Two Sum")
			assert.NoError(t, err)
			results <- inserted
		}()
	}
	wg.Wait()
	close(results)

	var insertCount int
	for inserted := range results {
		if inserted {
			insertCount++
		}
	}
	assert.Equal(t, 1, insertCount)

	list, err := store.ListBookmarks(testUserID, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteBookmarkByIDChecksOwner(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.InsertBookmark(testUserID, "item-1", models.ItemTypeProblem, "Two Sum")
	require.NoError(t, err)
	list, err := store.ListBookmarks(testUserID, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// 其他用户拿着正确的收藏 id 也删不掉
	_, err = store.DeleteBookmarkByID("660e8400-e29b-41d4-a716-446655440001", list[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := store.DeleteBookmarkByID(testUserID, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "item-1", deleted.ItemID)
}

func TestBookmarkedItemIDs(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.InsertBookmark(testUserID, "a", models.ItemTypeProblem, "A")
	require.NoError(t, err)
	_, err = store.InsertBookmark(testUserID, "c", models.ItemTypeNote, "C")
	require.NoError(t, err)

	marked, err := store.BookmarkedItemIDs(testUserID, models.ItemTypeProblem, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.True(t, marked["a"])
	assert.False(t, marked["b"])
	// 类型不匹配的收藏不计入
	assert.False(t, marked["c"])
}

func TestDeleteBookmarksForItem(t *testing.T) {
	store := NewMemoryStore()

	users := []string{testUserID, "660e8400-e29b-41d4-a716-446655440001"}
	for _, u := range users {
		_, err := store.InsertBookmark(u, "item-1", models.ItemTypeProblem, "Two Sum")
		require.NoError(t, err)
	}
	_, err := store.InsertBookmark(testUserID, "item-2", models.ItemTypeProblem, "Other")
	require.NoError(t, err)

	deleted, err := store.DeleteBookmarksForItem("item-1", models.ItemTypeProblem)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := store.ListBookmarks(testUserID, nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "item-2", remaining[0].ItemID)
}

func TestSeedDataIdempotent(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.SeedData())
	first, err := store.Stats()
	require.NoError(t, err)
	assert.Greater(t, first["problems"], 0)
	assert.Greater(t, first["users"], 0)

	// 重复播种不产生重复行
	require.NoError(t, store.SeedData())
	second, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
