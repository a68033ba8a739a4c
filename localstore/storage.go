package localstore

import (
	"os"
	"path/filepath"
)

// FileStorage 以檔案模擬 localStorage:每個 key 對應目錄下的一個 JSON 檔
type FileStorage struct {
	dir string
}

// NewFileStorage 建立以 dir 為根目錄的 FileStorage
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Load 讀取 key 的內容，檔案不存在時回傳空字串
func (f *FileStorage) Load(key string) (string, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// Save 覆寫 key 的內容
func (f *FileStorage) Save(key, value string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path(key), []byte(value), 0o644)
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}
