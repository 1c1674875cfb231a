package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// ==================== ShopService 店铺服务 ====================

// ShopService 店铺资料与顾客
type ShopService struct {
	shopRepo   repository.ShopRepository
	userRepo   repository.UserRepository
	storefront *StorefrontService
	logger     *zap.Logger
}

// NewShopService 创建店铺服务
func NewShopService(
	shopRepo repository.ShopRepository,
	userRepo repository.UserRepository,
	storefront *StorefrontService,
	logger *zap.Logger,
) *ShopService {
	return &ShopService{
		shopRepo:   shopRepo,
		userRepo:   userRepo,
		storefront: storefront,
		logger:     logger.Named("shop"),
	}
}

// Get 获取店铺
func (s *ShopService) Get(ctx context.Context, id int64) (*model.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapDBError(err, fmt.Sprintf("店铺 %d", id))
	}
	return shop, nil
}

// Update 更新店铺资料，只覆盖出现的字段；domain/subdomain 传空字符串表示清除
func (s *ShopService) Update(ctx context.Context, id int64, req *dto.ShopUpdateReq) (*model.Shop, error) {
	shop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// 旧域名的缓存先清掉
	s.storefront.invalidate(ctx, shop)

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Email != nil {
		shop.Email = *req.Email
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Description != nil {
		shop.Description = *req.Description
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.City != nil {
		shop.City = *req.City
	}
	if req.State != nil {
		shop.State = *req.State
	}
	if req.ZipCode != nil {
		shop.ZipCode = *req.ZipCode
	}
	if req.Country != nil {
		shop.Country = *req.Country
	}
	if req.Domain != nil {
		shop.Domain = nullable(*req.Domain)
	}
	if req.Subdomain != nil {
		shop.Subdomain = nullable(*req.Subdomain)
	}
	if req.ShopComplete != nil {
		shop.ShopComplete = *req.ShopComplete
	}
	if shop.Name == "" {
		return nil, NewValidationError("name", "必填")
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, wrapDBError(err, "店铺域名")
	}
	s.storefront.invalidate(ctx, shop)
	return shop, nil
}

// Delete 删除店铺及其合集、商品、订单
func (s *ShopService) Delete(ctx context.Context, id int64) error {
	shop, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.shopRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.storefront.invalidate(ctx, shop)
	s.logger.Info("店铺已删除", zap.Int64("shop_id", id))
	return nil
}

// ListCustomers 店铺顾客
func (s *ShopService) ListCustomers(ctx context.Context, shopID int64, page *dto.PageReq) ([]*dto.UserInfo, int64, error) {
	users, total, err := s.userRepo.ListCustomers(ctx, shopID, page.Page, page.PageSize)
	if err != nil {
		return nil, 0, err
	}
	list := make([]*dto.UserInfo, len(users))
	for i := range users {
		list[i] = toUserInfo(&users[i])
	}
	return list, total, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
