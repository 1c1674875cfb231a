package dto

import (
	"github.com/shopspring/decimal"

	"storefront_api/internal/model"
)

// OrderItemReq 订单明细，price 为下单时单价
type OrderItemReq struct {
	Product  int64            `json:"product" binding:"required"`
	Variant  *int64           `json:"variant"`
	Quantity int              `json:"quantity" binding:"omitempty,gte=1"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
}

// PlaceOrderReq 下单
type PlaceOrderReq struct {
	Shop            int64          `json:"shop" binding:"required"`
	ShippingAddress *int64         `json:"shipping_address"`
	Status          string         `json:"status" binding:"omitempty,oneof=PENDING PAID SHIPPED DELIVERED CANCELLED"`
	Fulfilled       bool           `json:"fulfilled"`
	Items           []OrderItemReq `json:"items" binding:"required,min=1,dive"`
}

// OrderResp 订单
// total_price 为下单时冻结金额；total_cost 按当前变体价格实时计算
type OrderResp struct {
	*model.Order
	TotalCost decimal.Decimal `json:"total_cost"`
}

// NewOrderResp 转换订单，需预加载明细的商品/变体
func NewOrderResp(o *model.Order) *OrderResp {
	return &OrderResp{Order: o, TotalCost: o.GetTotalCost()}
}

// NewOrderRespList 批量转换
func NewOrderRespList(orders []model.Order) []*OrderResp {
	list := make([]*OrderResp, len(orders))
	for i := range orders {
		list[i] = NewOrderResp(&orders[i])
	}
	return list
}
