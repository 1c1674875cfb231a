package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ==================== 商品状态 ====================

const (
	ProductStatusPublished = "PUBLISHED"
	ProductStatusDraft     = "DRAFT"
)

// ==================== Product 商品 ====================

// Product 商品，拥有选项/变体/图片，可属于多个合集
type Product struct {
	BaseModel
	ShopID      int64           `gorm:"uniqueIndex:idx_product_shop_handle;not null" json:"shop_id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"price"`
	Handle      string          `gorm:"size:255;uniqueIndex:idx_product_shop_handle;not null" json:"handle"`
	Status      string          `gorm:"size:10;default:PUBLISHED;index" json:"status"`
	Thumbnail   string          `gorm:"size:512" json:"thumbnail"`

	// --- 尺寸/重量 ---
	Weight decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"weight"`
	Length decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"length"`
	Height decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"height"`
	Width  decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"width"`

	// --- 关联关系 ---
	Options     []ProductOption  `gorm:"foreignKey:ProductID" json:"options"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	Images      []ProductImage   `gorm:"foreignKey:ProductID" json:"images"`
	Collections []Collection     `gorm:"many2many:product_collections;" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// CollectionIDs 已关联的合集 ID
func (p *Product) CollectionIDs() []int64 {
	ids := make([]int64, 0, len(p.Collections))
	for _, c := range p.Collections {
		ids = append(ids, c.ID)
	}
	return ids
}

// ProductImage 商品图片
type ProductImage struct {
	BaseModel
	ProductID int64  `gorm:"index;not null" json:"product"`
	Image     string `gorm:"size:512;not null" json:"image"`
}

func (ProductImage) TableName() string {
	return "product_images"
}

// ==================== 选项与选项值 ====================

// ProductOption 商品选项，如 "Size"
type ProductOption struct {
	BaseModel
	ProductID int64         `gorm:"index;not null" json:"product"`
	Name      string        `gorm:"size:255;not null" json:"name"`
	Values    []OptionValue `gorm:"foreignKey:OptionID" json:"values"`
}

func (ProductOption) TableName() string {
	return "product_options"
}

// OptionValue 选项值，如 "Large"
type OptionValue struct {
	BaseModel
	OptionID int64  `gorm:"index;not null" json:"option"`
	Name     string `gorm:"size:255;not null;index" json:"name"`
}

func (OptionValue) TableName() string {
	return "option_values"
}

// ==================== 变体 ====================

// ProductVariant 商品变体 (SKU)，每个选项至多引用一个值
type ProductVariant struct {
	BaseModel
	ProductID int64           `gorm:"index;not null" json:"product"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	SKU       string          `gorm:"column:sku;size:255" json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"price"`
	Inventory int             `gorm:"default:0" json:"inventory"`
	Values    []OptionValue   `gorm:"many2many:variant_values;" json:"values"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// VariantValue 变体-选项值关联表
type VariantValue struct {
	ProductVariantID int64 `gorm:"primaryKey"`
	OptionValueID    int64 `gorm:"primaryKey;index"`
	CreatedAt        time.Time
}

func (VariantValue) TableName() string {
	return "variant_values"
}

// ProductCollection 商品-合集关联表
type ProductCollection struct {
	ProductID    int64 `gorm:"primaryKey"`
	CollectionID int64 `gorm:"primaryKey;type:integer;index"`
	CreatedAt    time.Time
}

func (ProductCollection) TableName() string {
	return "product_collections"
}
