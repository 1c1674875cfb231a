package service

import (
	"strings"

	"github.com/gosimple/slug"
)

// Slugify 由名称生成 handle，如 "Blue Mug!" -> "blue-mug"
// 非 ASCII 字符先音译，"蓝色马克杯" -> "lan-se-ma-ke-bei"；没有可用字符时返回空串
func Slugify(name string) string {
	// slug 保留下划线，handle 只允许连字符
	return slug.Make(strings.ReplaceAll(name, "_", " "))
}

// isNumeric 纯数字 handle 会被详情接口当作 ID，不允许使用
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
