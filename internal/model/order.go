package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ==================== 订单状态常量 ====================

const (
	OrderStatusPending   = "PENDING"   // 待支付
	OrderStatusPaid      = "PAID"      // 已支付
	OrderStatusShipped   = "SHIPPED"   // 已发货
	OrderStatusDelivered = "DELIVERED" // 已签收
	OrderStatusCancelled = "CANCELLED" // 已取消
)

// ==================== Order 订单 ====================

// Order 订单
// TotalPrice 在下单时由明细价格冻结，不随商品改价变化
type Order struct {
	BaseModel
	CustomerID        int64            `gorm:"index;not null" json:"customer"`
	Customer          *User            `gorm:"foreignKey:CustomerID" json:"-"`
	ShopID            int64            `gorm:"index;not null" json:"shop"`
	ShippingAddressID *int64           `json:"shipping_address"`
	ShippingAddress   *CustomerAddress `gorm:"foreignKey:ShippingAddressID" json:"-"`
	Status            string           `gorm:"size:10;default:PENDING;index" json:"status"`
	TotalPrice        decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	Fulfilled         bool             `gorm:"default:false;index" json:"fulfilled"`

	// 下单时的收货地址快照
	ShippingSnapshot datatypes.JSONMap `json:"shipping_snapshot,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细，Price 为下单时单价
type OrderItem struct {
	BaseModel
	OrderID   int64           `gorm:"index;not null" json:"order"`
	ProductID int64           `gorm:"index;not null" json:"product"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"-"`
	VariantID *int64          `gorm:"index" json:"variant"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID" json:"-"`
	Quantity  int             `gorm:"default:1;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 明细冻结金额
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CurrentUnitPrice 当前单价：优先变体价格，无变体时取商品价格
// 需预加载 Variant / Product
func (i *OrderItem) CurrentUnitPrice() decimal.Decimal {
	if i.Variant != nil {
		return i.Variant.Price
	}
	if i.Product != nil {
		return i.Product.Price
	}
	return decimal.Zero
}

// GetTotalCost 按当前变体价格实时计算的订单金额
// 与 TotalPrice 不同，商品改价后结果会变化
func (o *Order) GetTotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		item := &o.Items[i]
		total = total.Add(item.CurrentUnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
