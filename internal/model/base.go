package model

import (
	"time"
)

// BaseModel 公共字段
// ID 不使用自增序列，由 database.RegisterIDGenerator 注册的回调在创建前随机分配
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
