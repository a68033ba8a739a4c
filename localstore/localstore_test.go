package localstore

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestSubmitAndSearch(t *testing.T) {
	store := NewPostStore(NewFileStorage(t.TempDir()))

	// 提交一則貼文
	post, err := store.Submit(Form{
		Title: "Guitar",
		Desc:  "basics",
		Tags:  "music, strings",
	})
	assert.NoError(t, err, "提交貼文不應該返回錯誤")
	assert.NotZero(t, post.ID, "貼文應該分配到時間戳 ID")

	// 標籤搜尋不分大小寫:搜 "STR" 應該命中 "strings" 標籤
	results, err := store.Search("STR")
	assert.NoError(t, err)
	assert.Len(t, results, 1, "搜尋 STR 應該命中 strings 標籤")
	assert.Equal(t, "Guitar", results[0].Title)

	// 標題搜尋也不分大小寫
	results, err = store.Search("guit")
	assert.NoError(t, err)
	assert.Len(t, results, 1)

	// 沒有命中的搜尋詞回傳空集合
	results, err = store.Search("piano")
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyStore(t *testing.T) {
	store := NewPostStore(NewFileStorage(t.TempDir()))

	// 空的儲存層對任何搜尋詞都回傳空集合
	results, err := store.Search("anything")
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchReadsFreshState(t *testing.T) {
	dir := t.TempDir()

	// 兩個 PostStore 共用同一個儲存目錄，模擬跨分頁的情境
	writer := NewPostStore(NewFileStorage(dir))
	reader := NewPostStore(NewFileStorage(dir))

	_, err := writer.Submit(Form{Title: "Cooking", Desc: "pasta", Tags: "food"})
	assert.NoError(t, err)

	// 另一個實例的搜尋應該立刻看到新貼文，因為每次搜尋都重新讀取儲存層
	results, err := reader.Search("cook")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSubmitRewritesWholeCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)
	store := NewPostStore(storage)

	existing, err := json.Marshal([]SkillPost{{ID: 1, Title: "Old", Tags: "x"}})
	assert.NoError(t, err)

	// 提交時先讀出整批貼文，再整批寫回（含既有貼文與新貼文）
	storage.EXPECT().Load(StorageKey).Return(string(existing), nil)
	storage.EXPECT().Save(StorageKey, gomock.Any()).DoAndReturn(func(_, value string) error {
		var posts []SkillPost
		assert.NoError(t, json.Unmarshal([]byte(value), &posts))
		assert.Len(t, posts, 2, "整批重寫應該同時包含舊貼文與新貼文")
		assert.Equal(t, "Old", posts[0].Title)
		assert.Equal(t, "New", posts[1].Title)
		return nil
	})

	_, err = store.Submit(Form{Title: "New"})
	assert.NoError(t, err)
}

func TestSubmitSaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)
	store := NewPostStore(storage)

	// 模擬儲存空間不足之類的寫入失敗，錯誤應該原樣往上傳
	saveErr := errors.New("quota exceeded")
	storage.EXPECT().Load(StorageKey).Return("", nil)
	storage.EXPECT().Save(StorageKey, gomock.Any()).Return(saveErr)

	_, err := store.Submit(Form{Title: "Anything"})
	assert.ErrorIs(t, err, saveErr)
}

func TestSearchCorruptData(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := NewMockStorage(ctrl)
	store := NewPostStore(storage)

	storage.EXPECT().Load(StorageKey).Return("not-json", nil)

	_, err := store.Search("x")
	assert.Error(t, err, "損壞的 JSON 應該返回錯誤")
}
