package dto

import (
	"github.com/shopspring/decimal"

	"storefront_api/internal/model"
)

// ==================== 请求 DTO ====================
// 列表字段为 nil 表示请求中未出现，[] 表示清空

// OptionValueReq 选项值，id 仅在单独更新选项时用于保留已有值
type OptionValueReq struct {
	ID   *int64 `json:"id"`
	Name string `json:"name" binding:"required,max=255"`
}

// OptionReq 选项
type OptionReq struct {
	Name   string           `json:"name" binding:"required,max=255"`
	Values []OptionValueReq `json:"values" binding:"dive"`
}

// VariantValueReq 变体引用的选项值，按名称在本商品内解析
type VariantValueReq struct {
	Name string `json:"name" binding:"required,max=255"`
}

// VariantReq 变体
type VariantReq struct {
	Name      string            `json:"name" binding:"required,max=255"`
	SKU       string            `json:"sku" binding:"max=255"`
	Price     decimal.Decimal   `json:"price"`
	Inventory int               `json:"inventory" binding:"gte=0"`
	Values    []VariantValueReq `json:"values" binding:"dive"`
}

// ProductReq 创建/更新商品
// 标量字段为指针，未出现的字段在更新时保持原值
type ProductReq struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Handle      *string          `json:"handle" binding:"omitempty,max=255,handle"`
	Status      *string          `json:"status" binding:"omitempty,oneof=PUBLISHED DRAFT"`
	Thumbnail   *string          `json:"thumbnail"`
	Weight      *decimal.Decimal `json:"weight"`
	Length      *decimal.Decimal `json:"length"`
	Height      *decimal.Decimal `json:"height"`
	Width       *decimal.Decimal `json:"width"`

	Collections []int64      `json:"collections"`
	Options     []OptionReq  `json:"options" binding:"dive"`
	Variants    []VariantReq `json:"variants" binding:"dive"`
	// 已有图片地址或 data URL
	UploadedImages []string `json:"uploaded_images"`
}

// ProductListReq 商品列表
type ProductListReq struct {
	PageReq
	Status  string `form:"status" binding:"omitempty,oneof=PUBLISHED DRAFT"`
	Keyword string `form:"keyword"`
}

// ==================== 响应 DTO ====================

// ProductResp 商品详情
type ProductResp struct {
	*model.Product
	Collections []int64 `json:"collections"`
}

// NewProductResp 转换商品
func NewProductResp(p *model.Product) *ProductResp {
	return &ProductResp{Product: p, Collections: p.CollectionIDs()}
}

// NewProductRespList 批量转换
func NewProductRespList(products []model.Product) []*ProductResp {
	list := make([]*ProductResp, len(products))
	for i := range products {
		list[i] = NewProductResp(&products[i])
	}
	return list
}

// ==================== 选项 / 变体 单独接口 ====================

// OptionCreateItem 单独创建选项
type OptionCreateItem struct {
	Product int64            `json:"product" binding:"required"`
	Name    string           `json:"name" binding:"required,max=255"`
	Values  []OptionValueReq `json:"values" binding:"dive"`
}

// OptionBulkCreateReq 批量创建选项
type OptionBulkCreateReq struct {
	Options []OptionCreateItem `json:"options" binding:"required,min=1,dive"`
}

// OptionUpdateReq 单独更新选项，values 出现时按 id 增量对账
type OptionUpdateReq struct {
	Name   *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Values []OptionValueReq `json:"values" binding:"dive"`
}

// VariantCreateReq 单独创建变体
type VariantCreateReq struct {
	Product int64 `json:"product" binding:"required"`
	VariantReq
}

// VariantUpdateReq 单独更新变体，values 出现时清空后按名称重新关联
type VariantUpdateReq struct {
	Name      *string           `json:"name" binding:"omitempty,min=1,max=255"`
	SKU       *string           `json:"sku" binding:"omitempty,max=255"`
	Price     *decimal.Decimal  `json:"price"`
	Inventory *int              `json:"inventory" binding:"omitempty,gte=0"`
	Values    []VariantValueReq `json:"values" binding:"dive"`
}

// CatalogListReq 选项/变体列表
type CatalogListReq struct {
	Product int64 `form:"product"`
}
