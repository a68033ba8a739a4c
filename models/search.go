package models

import "strings"

// matchTitleOrTags 實作與前端相同的搜尋規則:
// 標題包含搜尋詞，或任一個（逗號分隔、去除空白後的）標籤包含搜尋詞，皆不分大小寫。
func matchTitleOrTags(title, tags, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if strings.Contains(strings.ToLower(title), term) {
		return true
	}
	for _, tag := range strings.Split(tags, ",") {
		if strings.Contains(strings.ToLower(strings.TrimSpace(tag)), term) {
			return true
		}
	}
	return false
}
