package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
	"storefront_api/pkg/cache"
)

// storefrontProductLimit 前台首页展示的商品数
const storefrontProductLimit = 8

// ==================== StorefrontService 店铺前台 ====================

// StorefrontService 按域名返回店铺首页数据，结果写入缓存
// 商品/合集/店铺写入后通过 InvalidateShop 清理
type StorefrontService struct {
	shopRepo       repository.ShopRepository
	productRepo    repository.ProductRepository
	collectionRepo repository.CollectionRepository
	cache          cache.Cache
	ttl            time.Duration
	logger         *zap.Logger
}

// NewStorefrontService 创建前台服务，c 为 nil 时不缓存
func NewStorefrontService(
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	collectionRepo repository.CollectionRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *StorefrontService {
	return &StorefrontService{
		shopRepo:       shopRepo,
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		cache:          c,
		ttl:            ttl,
		logger:         logger.Named("storefront"),
	}
}

// Get 按平台子域名或自定义域名获取店铺首页
func (s *StorefrontService) Get(ctx context.Context, domain string) (*dto.StorefrontResp, error) {
	if resp, ok := s.fromCache(ctx, domain); ok {
		return resp, nil
	}

	shop, err := s.shopRepo.GetByDomain(ctx, domain)
	if err != nil {
		return nil, wrapDBError(err, "店铺 "+domain)
	}

	products, _, err := s.productRepo.List(ctx, repository.ProductFilter{
		ShopID:   shop.ID,
		Status:   model.ProductStatusPublished,
		Page:     1,
		PageSize: storefrontProductLimit,
	})
	if err != nil {
		return nil, err
	}

	collections, err := s.collectionRepo.List(ctx, repository.CollectionFilter{ShopID: shop.ID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	resp := &dto.StorefrontResp{
		Shop:        shop,
		Products:    dto.NewProductRespList(products),
		Collections: collections,
	}
	s.toCache(ctx, domain, resp)
	return resp, nil
}

// InvalidateShop 清理店铺的前台缓存
func (s *StorefrontService) InvalidateShop(ctx context.Context, shopID int64) {
	if s.cache == nil {
		return
	}
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return
	}
	s.invalidate(ctx, shop)
}

func (s *StorefrontService) invalidate(ctx context.Context, shop *model.Shop) {
	if s == nil || s.cache == nil {
		return
	}
	var keys []string
	for _, d := range []*string{shop.Subdomain, shop.Domain} {
		if d != nil && *d != "" {
			keys = append(keys, storefrontKey(*d))
		}
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("清理前台缓存失败", zap.Int64("shop_id", shop.ID), zap.Error(err))
	}
}

func (s *StorefrontService) fromCache(ctx context.Context, domain string) (*dto.StorefrontResp, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, storefrontKey(domain))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("读取前台缓存失败", zap.String("domain", domain), zap.Error(err))
		}
		return nil, false
	}

	var resp dto.StorefrontResp
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("前台缓存数据损坏", zap.String("domain", domain), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (s *StorefrontService) toCache(ctx context.Context, domain string, resp *dto.StorefrontResp) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, storefrontKey(domain), data, s.ttl); err != nil {
		s.logger.Warn("写入前台缓存失败", zap.String("domain", domain), zap.Error(err))
	}
}

func storefrontKey(domain string) string {
	return "storefront:" + domain
}
