package repository

import (
	"strconv"

	"gorm.io/gorm"
)

// Lookup 详情路径参数：能解析为整数则按主键查询，否则按 handle 查询
type Lookup struct {
	ID     int64
	Handle string
}

// ParseLookup 解析路径参数
func ParseLookup(s string) Lookup {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Lookup{ID: id}
	}
	return Lookup{Handle: s}
}

// IsID 是否按主键查询
func (l Lookup) IsID() bool {
	return l.Handle == ""
}

// String 用于错误信息
func (l Lookup) String() string {
	if l.IsID() {
		return strconv.FormatInt(l.ID, 10)
	}
	return l.Handle
}

func (l Lookup) scope(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if l.IsID() {
			return db.Where(table+".id = ?", l.ID)
		}
		return db.Where(table+".handle = ?", l.Handle)
	}
}
