package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillMatchesSearch(t *testing.T) {
	skill := Skill{
		Title: "Guitar",
		Tags:  "music, strings",
	}

	// 標籤比對不分大小寫，且標籤要先去除空白
	assert.True(t, skill.MatchesSearch("STR"), "搜尋 STR 應該命中 strings 標籤")
	assert.True(t, skill.MatchesSearch("music"))

	// 標題比對不分大小寫
	assert.True(t, skill.MatchesSearch("guitar"))
	assert.True(t, skill.MatchesSearch("GUI"))

	// 沒有命中
	assert.False(t, skill.MatchesSearch("piano"))

	// 搜尋詞前後的空白會被忽略
	assert.True(t, skill.MatchesSearch("  strings  "))
}
