package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// 实体编码的标签解码后可能再次成为标签，最多剥离这么多轮
const maxSanitizeRounds = 8

// sanitize 去掉全部 HTML 标签（含实体编码的标签），保留纯文本
func sanitize(s string) string {
	for i := 0; i < maxSanitizeRounds; i++ {
		clean := textPolicy.Sanitize(s)
		plain := html.UnescapeString(clean)
		if plain == s {
			return strings.TrimSpace(plain)
		}
		s = plain
	}
	// 未收敛时保留转义形式，不输出任何可执行标签
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitize(*s)
	if v == "" {
		return nil
	}
	return &v
}
