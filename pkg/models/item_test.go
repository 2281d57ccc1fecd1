package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseItemType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ItemType
		wantErr bool
	}{
		{name: "problem", input: "problem", want: ItemTypeProblem},
		{name: "note", input: "note", want: ItemTypeNote},
		{name: "interview", input: "interview", want: ItemTypeInterview},
		{name: "empty", input: "", wantErr: true},
		{name: "unknown value", input: "worksheet", wantErr: true},
		{name: "plural not accepted", input: "problems", wantErr: true},
		{name: "case sensitive", input: "Problem", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseItemType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "item_type must be")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItemTypeTableName(t *testing.T) {
	assert.Equal(t, "problems", ItemTypeProblem.TableName())
	assert.Equal(t, "notes", ItemTypeNote.TableName())
	assert.Equal(t, "interviews", ItemTypeInterview.TableName())
	assert.Equal(t, "", ItemType("worksheet").TableName())
}

func TestBookmarkSetGrouping(t *testing.T) {
	set := NewBookmarkSet()

	// 空集合序列化为空数组而不是 null
	assert.NotNil(t, set.Problems)
	assert.NotNil(t, set.Notes)
	assert.NotNil(t, set.Interviews)
	assert.Equal(t, 0, set.Count())

	set.Add(Bookmark{ID: "b1", ItemType: ItemTypeProblem})
	set.Add(Bookmark{ID: "b2", ItemType: ItemTypeNote})
	set.Add(Bookmark{ID: "b3", ItemType: ItemTypeProblem})

	assert.Len(t, set.Problems, 2)
	assert.Len(t, set.Notes, 1)
	assert.Len(t, set.Interviews, 0)
	assert.Equal(t, 3, set.Count())
}
