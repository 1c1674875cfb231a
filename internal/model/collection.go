package model

import (
	"time"
)

// CollectionIDDigits 合集主键为 32 位 integer 列，随机 ID 取 9 位
const CollectionIDDigits = 9

// Collection 商品合集，与商品多对多，不拥有商品
type Collection struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false;type:integer" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ShopID      int64     `gorm:"uniqueIndex:idx_collection_shop_handle;not null" json:"shop"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:512" json:"image"`
	Handle      string    `gorm:"size:255;uniqueIndex:idx_collection_shop_handle;not null" json:"handle"`
	IsActive    bool      `gorm:"default:false" json:"is_active"`
	Products    []Product `gorm:"many2many:product_collections;" json:"products"`
}

func (Collection) TableName() string {
	return "collections"
}

// IDDigits 随机 ID 位数，供 ID 生成回调读取
func (Collection) IDDigits() int {
	return CollectionIDDigits
}
