package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_api/internal/model"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单过滤条件
type OrderFilter struct {
	ShopID     int64
	CustomerID int64
	Status     string
	Fulfilled  *bool
	StartDate  *time.Time
	Page       int
	PageSize   int
}

func (f OrderFilter) apply(query *gorm.DB) *gorm.DB {
	if f.ShopID > 0 {
		query = query.Where("orders.shop_id = ?", f.ShopID)
	}
	if f.CustomerID > 0 {
		query = query.Where("orders.customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		query = query.Where("orders.status = ?", f.Status)
	}
	if f.Fulfilled != nil {
		query = query.Where("orders.fulfilled = ?", *f.Fulfilled)
	}
	if f.StartDate != nil {
		query = query.Where("orders.created_at >= ?", *f.StartDate)
	}
	return query
}

// ==================== OrderRepository 订单仓库 ====================

// OrderRepository 订单仓库接口
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)

	// 统计
	SumTotalPrice(ctx context.Context, filter OrderFilter) (decimal.Decimal, error)
	TopProducts(ctx context.Context, shopID int64, since time.Time, limit int) ([]ProductSales, error)
}

// ProductSales 商品销量
type ProductSales struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

// ==================== 实现 ====================

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create 创建订单及明细
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

// GetByID 获取订单，明细附带当前商品/变体
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Variant").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := filter.apply(r.db.WithContext(ctx).Model(&model.Order{}))
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	err := query.
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Variant").
		Order("orders.created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	var count int64
	err := filter.apply(r.db.WithContext(ctx).Model(&model.Order{})).Count(&count).Error
	return count, err
}

// SumTotalPrice 订单冻结金额合计
func (r *orderRepository) SumTotalPrice(ctx context.Context, filter OrderFilter) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := filter.apply(r.db.WithContext(ctx).Model(&model.Order{})).
		Select("SUM(orders.total_price)").
		Row().Scan(&sum)
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

// TopProducts 时间窗口内按销量排序的商品
func (r *orderRepository) TopProducts(ctx context.Context, shopID int64, since time.Time, limit int) ([]ProductSales, error) {
	var results []ProductSales
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, products.name, SUM(order_items.quantity) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.shop_id = ? AND orders.created_at >= ?", shopID, since).
		Group("order_items.product_id, products.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}
