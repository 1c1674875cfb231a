package service

import (
	"context"
	"time"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/repository"
)

const (
	topProductsWindow = 7 * 24 * time.Hour
	topProductsLimit  = 5
)

// DashboardService 店主后台概览
type DashboardService struct {
	userRepo    repository.UserRepository
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	now         func() time.Time
}

// NewDashboardService 创建概览服务
func NewDashboardService(
	userRepo repository.UserRepository,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:    userRepo,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		now:         time.Now,
	}
}

// Get 店主的店铺概览
// 新订单为上一次登录之后创建的订单，没有上一次登录记录时为全部订单
func (s *DashboardService) Get(ctx context.Context, userID int64) (*dto.DashboardResp, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("用户 %d", userID)
	}

	shop, err := s.shopRepo.GetByOwnerID(ctx, userID)
	if err != nil {
		return nil, wrapDBError(err, "用户的店铺")
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-topProductsWindow)
	unfulfilled := false
	byShop := repository.OrderFilter{ShopID: shop.ID}

	resp := &dto.DashboardResp{Shop: shop, TopProducts: []dto.TopProduct{}}

	if resp.Products, err = s.productRepo.CountByShop(ctx, shop.ID); err != nil {
		return nil, err
	}
	if resp.AllSales, err = s.orderRepo.SumTotalPrice(ctx, byShop); err != nil {
		return nil, err
	}
	if resp.DailySales, err = s.orderRepo.SumTotalPrice(ctx, repository.OrderFilter{ShopID: shop.ID, StartDate: &today}); err != nil {
		return nil, err
	}
	if resp.Orders, err = s.orderRepo.Count(ctx, byShop); err != nil {
		return nil, err
	}
	if resp.NewOrders, err = s.orderRepo.Count(ctx, repository.OrderFilter{ShopID: shop.ID, StartDate: user.PreviousLoginAt}); err != nil {
		return nil, err
	}
	if resp.OpenOrders, err = s.orderRepo.Count(ctx, repository.OrderFilter{ShopID: shop.ID, Fulfilled: &unfulfilled}); err != nil {
		return nil, err
	}
	if resp.NumCustomers, err = s.userRepo.CountCustomers(ctx, shop.ID); err != nil {
		return nil, err
	}

	top, err := s.orderRepo.TopProducts(ctx, shop.ID, weekAgo, topProductsLimit)
	if err != nil {
		return nil, err
	}
	for _, p := range top {
		resp.TopProducts = append(resp.TopProducts, dto.TopProduct{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  p.Quantity,
		})
	}
	return resp, nil
}
