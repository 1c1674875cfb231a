package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// ==================== OrderService 订单服务 ====================

// OrderService 订单服务
// total_price 下单时按明细价格冻结；GetTotalCost 按当前变体价格实时计算
type OrderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	logger      *zap.Logger
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
		logger:      logger.Named("order"),
	}
}

// PlaceOrder 顾客下单
// 商品必须属于该店铺，变体必须属于对应商品；单价取请求中的 price
func (s *OrderService) PlaceOrder(ctx context.Context, customerID int64, req *dto.PlaceOrderReq) (*model.Order, error) {
	customer, err := s.userRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFound("顾客 %d", customerID)
	}

	shop, err := s.shopRepo.GetByID(ctx, req.Shop)
	if err != nil {
		return nil, wrapDBError(err, fmt.Sprintf("店铺 %d", req.Shop))
	}

	if len(req.Items) == 0 {
		return nil, NewValidationError("items", "至少包含一个商品")
	}

	order := &model.Order{
		CustomerID: customerID,
		ShopID:     shop.ID,
		Status:     model.OrderStatusPending,
		Fulfilled:  req.Fulfilled,
		TotalPrice: decimal.Zero,
	}
	if req.Status != "" {
		order.Status = req.Status
	}

	if req.ShippingAddress != nil {
		address, err := s.userRepo.GetAddress(ctx, *req.ShippingAddress)
		if err != nil {
			return nil, err
		}
		if address == nil || address.CustomerID != customerID {
			return nil, notFound("收货地址 %d", *req.ShippingAddress)
		}
		order.ShippingAddressID = &address.ID
		order.ShippingSnapshot = datatypes.JSONMap{
			"name":           customer.FullName(),
			"street_address": address.StreetAddress,
			"city":           address.City,
			"state":          address.State,
			"country":        address.Country,
			"zip_code":       address.ZipCode,
		}
	}

	order.Items = make([]model.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		item, err := s.buildItem(ctx, shop.ID, i, &it)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
		order.TotalPrice = order.TotalPrice.Add(item.LineTotal())
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, wrapDBError(err, "订单")
	}
	if err := s.userRepo.JoinShop(ctx, customerID, shop.ID); err != nil {
		s.logger.Warn("顾客加入店铺失败", zap.Int64("customer_id", customerID), zap.Error(err))
	}

	s.logger.Info("订单已创建",
		zap.Int64("order_id", order.ID),
		zap.Int64("shop_id", shop.ID),
		zap.Int64("customer_id", customerID),
		zap.String("total_price", order.TotalPrice.StringFixed(2)))

	return s.orderRepo.GetByID(ctx, order.ID)
}

// ListByCustomer 顾客的订单
func (s *OrderService) ListByCustomer(ctx context.Context, customerID int64, page *dto.PageReq) ([]model.Order, int64, error) {
	return s.orderRepo.List(ctx, repository.OrderFilter{
		CustomerID: customerID,
		Page:       page.Page,
		PageSize:   page.PageSize,
	})
}

// Get 获取订单，仅下单顾客或店主可见
func (s *OrderService) Get(ctx context.Context, id, viewerID, viewerShopID int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapDBError(err, fmt.Sprintf("订单 %d", id))
	}
	if order.CustomerID != viewerID && order.ShopID != viewerShopID {
		return nil, fmt.Errorf("%w: 订单 %d", ErrForbidden, id)
	}
	return order, nil
}

func (s *OrderService) buildItem(ctx context.Context, shopID int64, i int, req *dto.OrderItemReq) (*model.OrderItem, error) {
	field := fmt.Sprintf("items[%d]", i)

	product, err := s.productRepo.FindByID(ctx, req.Product)
	if err != nil {
		return nil, wrapDBError(err, fmt.Sprintf("商品 %d", req.Product))
	}
	if product.ShopID != shopID {
		return nil, NewValidationError(field+".product", "不属于该店铺")
	}

	item := &model.OrderItem{ProductID: product.ID, Quantity: req.Quantity}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	verr := &ValidationError{}
	if item.Quantity < 1 {
		verr.Add(field+".quantity", "不能小于 1")
	}
	if req.Price == nil {
		verr.Add(field+".price", "必填")
	} else if req.Price.IsNegative() {
		verr.Add(field+".price", "不能为负数")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	item.Price = *req.Price

	if req.Variant != nil {
		variant, err := s.variantRepo.GetByID(ctx, *req.Variant)
		if err != nil {
			return nil, wrapDBError(err, fmt.Sprintf("变体 %d", *req.Variant))
		}
		if variant.ProductID != product.ID {
			return nil, NewValidationError(field+".variant", "不属于该商品")
		}
		item.VariantID = &variant.ID
	}
	return item, nil
}
