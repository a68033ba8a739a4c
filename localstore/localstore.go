// Package localstore 是瀏覽器端表單/搜尋邏輯的 Go 版本:
// 貼文整批存在單一 key 底下，搜尋時每次重新讀取儲存層，
// 因此跨分頁（或跨程序）寫入的資料也會反映在結果中。
package localstore

import (
	"encoding/base64"
	"encoding/json"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StorageKey 是存放全部技能貼文的單一 key，與前端 localStorage 的 key 一致
const StorageKey = "skillPosts"

// SkillPost 代表一則本地儲存的技能貼文
type SkillPost struct {
	ID    int64  `json:"id"` // 建立當下的 Unix 毫秒時間戳
	Title string `json:"title"`
	Desc  string `json:"desc"`
	Tags  string `json:"tags"` // 逗號分隔
	Image string `json:"image,omitempty"` // base64 data URL
}

// Form 是建立貼文的表單內容
type Form struct {
	Title string
	Desc  string
	Tags  string
	Image string // 先用 EncodeImageFile 暫存好的 data URL
}

//go:generate mockgen -source=localstore.go -destination=mock_storage.go -package=localstore

// Storage 是底層儲存的介面，對應瀏覽器 localStorage 的讀寫
type Storage interface {
	// Load 讀取 key 對應的值，key 不存在時回傳空字串
	Load(key string) (string, error)
	// Save 覆寫 key 對應的值
	Save(key, value string) error
}

// PostStore 管理本地技能貼文的建立與搜尋
type PostStore struct {
	storage Storage
	now     func() time.Time
}

// NewPostStore 建立 PostStore
func NewPostStore(storage Storage) *PostStore {
	return &PostStore{storage: storage, now: time.Now}
}

// Submit 將表單內容存成新貼文，並把整個集合重寫回儲存層。
// ID 取自當下的毫秒時間戳，同一毫秒內連續送出理論上會撞號，這裡不做防護。
func (s *PostStore) Submit(form Form) (SkillPost, error) {
	posts, err := s.load()
	if err != nil {
		return SkillPost{}, err
	}

	post := SkillPost{
		ID:    s.now().UnixMilli(),
		Title: form.Title,
		Desc:  form.Desc,
		Tags:  form.Tags,
		Image: form.Image,
	}
	posts = append(posts, post)

	encoded, err := json.Marshal(posts)
	if err != nil {
		return SkillPost{}, err
	}
	if err := s.storage.Save(StorageKey, string(encoded)); err != nil {
		return SkillPost{}, err
	}
	return post, nil
}

// Search 回傳標題或任一標籤包含搜尋詞的貼文（不分大小寫）。
// 每次呼叫都重新讀取儲存層，不依賴記憶體中的狀態。
func (s *PostStore) Search(term string) ([]SkillPost, error) {
	posts, err := s.load()
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))

	results := []SkillPost{}
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Title), term) {
			results = append(results, post)
			continue
		}
		for _, tag := range strings.Split(post.Tags, ",") {
			if strings.Contains(strings.ToLower(strings.TrimSpace(tag)), term) {
				results = append(results, post)
				break
			}
		}
	}
	return results, nil
}

// load 從儲存層讀出完整的貼文集合
func (s *PostStore) load() ([]SkillPost, error) {
	raw, err := s.storage.Load(StorageKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return []SkillPost{}, nil
	}

	var posts []SkillPost
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// EncodeImageFile 讀取圖片檔並編碼成 base64 data URL，
// 對應前端送出表單前用 FileReader 暫存圖片的步驟
func EncodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
