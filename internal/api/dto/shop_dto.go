package dto

import (
	"github.com/shopspring/decimal"

	"storefront_api/internal/model"
)

// ShopUpdateReq 更新店铺，仅覆盖出现的字段
type ShopUpdateReq struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=20"`
	Description  *string `json:"description"`
	Address      *string `json:"address" binding:"omitempty,max=255"`
	City         *string `json:"city" binding:"omitempty,max=100"`
	State        *string `json:"state" binding:"omitempty,max=50"`
	ZipCode      *string `json:"zip_code" binding:"omitempty,max=20"`
	Country      *string `json:"country" binding:"omitempty,max=100"`
	Domain       *string `json:"domain" binding:"omitempty,max=255"`
	Subdomain    *string `json:"subdomain" binding:"omitempty,max=255,handle"`
	ShopComplete *bool   `json:"shop_complete"`
}

// ==================== 后台概览 ====================

// TopProduct 近 7 天畅销商品
type TopProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

// DashboardResp 店铺概览
type DashboardResp struct {
	Shop         *model.Shop     `json:"shop"`
	Products     int64           `json:"products"`
	AllSales     decimal.Decimal `json:"all_sales"`
	DailySales   decimal.Decimal `json:"daily_sales"`
	Orders       int64           `json:"orders"`
	NewOrders    int64           `json:"new_orders"`
	OpenOrders   int64           `json:"open_orders"`
	TopProducts  []TopProduct    `json:"top_products"`
	NumCustomers int64           `json:"num_customers"`
}

// ==================== 店铺前台 ====================

// StorefrontResp 店铺前台首页
type StorefrontResp struct {
	Shop        *model.Shop        `json:"shop"`
	Products    []*ProductResp     `json:"products"`
	Collections []model.Collection `json:"collections"`
}
