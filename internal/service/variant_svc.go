package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// ==================== VariantService 变体服务 ====================

// VariantService 单独维护商品变体
type VariantService struct {
	catalog *repository.CatalogUnitOfWork
	cache   ShopCacheInvalidator
	logger  *zap.Logger
}

// NewVariantService 创建变体服务
func NewVariantService(catalog *repository.CatalogUnitOfWork, cache ShopCacheInvalidator, logger *zap.Logger) *VariantService {
	return &VariantService{catalog: catalog, cache: cache, logger: logger.Named("variant")}
}

// List 商品的全部变体
func (s *VariantService) List(ctx context.Context, shopID, productID int64) ([]model.ProductVariant, error) {
	if productID == 0 {
		return nil, NewValidationError("product", "必填")
	}
	if _, err := productInShop(ctx, s.catalog.Products, shopID, productID); err != nil {
		return nil, err
	}
	return s.catalog.Variants.List(ctx, productID)
}

// Get 获取变体
func (s *VariantService) Get(ctx context.Context, shopID, id int64) (*model.ProductVariant, error) {
	return s.load(ctx, s.catalog, shopID, id)
}

// Create 创建变体，选项值按名称在所属商品内解析
func (s *VariantService) Create(ctx context.Context, shopID int64, req *dto.VariantCreateReq) (*model.ProductVariant, error) {
	var variantID int64
	err := s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if _, err := productInShop(ctx, uow.Products, shopID, req.Product); err != nil {
			return err
		}
		if err := validateVariant("variant", req.Price, req.Inventory); err != nil {
			return err
		}
		valueIDs, err := resolveVariantValues(ctx, uow.Options, req.Product, req.Values, "variant")
		if err != nil {
			return err
		}

		variant := &model.ProductVariant{
			ProductID: req.Product,
			Name:      req.Name,
			SKU:       req.SKU,
			Price:     req.Price,
			Inventory: req.Inventory,
		}
		if err := uow.Variants.Create(ctx, variant); err != nil {
			return wrapDBError(err, "变体 "+req.Name)
		}
		variantID = variant.ID
		return uow.Variants.AttachValues(ctx, variant.ID, valueIDs)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, shopID)
	return s.Get(ctx, shopID, variantID)
}

// Update 覆盖出现的标量字段；values 出现时清空后按名称重新关联
func (s *VariantService) Update(ctx context.Context, shopID, id int64, req *dto.VariantUpdateReq) (*model.ProductVariant, error) {
	err := s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		variant, err := s.load(ctx, uow, shopID, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			variant.Name = *req.Name
		}
		if req.SKU != nil {
			variant.SKU = *req.SKU
		}
		if req.Price != nil {
			variant.Price = *req.Price
		}
		if req.Inventory != nil {
			variant.Inventory = *req.Inventory
		}
		if err := validateVariant("variant", variant.Price, variant.Inventory); err != nil {
			return err
		}
		if err := uow.Variants.Update(ctx, variant); err != nil {
			return wrapDBError(err, "变体")
		}

		if req.Values == nil {
			return nil
		}
		valueIDs, err := resolveVariantValues(ctx, uow.Options, variant.ProductID, req.Values, "variant")
		if err != nil {
			return err
		}
		if err := uow.Variants.ClearValues(ctx, id); err != nil {
			return err
		}
		return uow.Variants.AttachValues(ctx, id, valueIDs)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, shopID)
	return s.Get(ctx, shopID, id)
}

// Delete 删除变体，引用它的订单明细保留并置空 variant
func (s *VariantService) Delete(ctx context.Context, shopID, id int64) error {
	err := s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if _, err := s.load(ctx, uow, shopID, id); err != nil {
			return err
		}
		return uow.Variants.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("变体已删除", zap.Int64("shop_id", shopID), zap.Int64("variant_id", id))
	s.invalidate(ctx, shopID)
	return nil
}

func (s *VariantService) load(ctx context.Context, uow *repository.CatalogUnitOfWork, shopID, id int64) (*model.ProductVariant, error) {
	variant, err := uow.Variants.GetByID(ctx, id)
	if err != nil {
		return nil, wrapDBError(err, fmt.Sprintf("变体 %d", id))
	}
	if _, err := productInShop(ctx, uow.Products, shopID, variant.ProductID); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *VariantService) invalidate(ctx context.Context, shopID int64) {
	if s.cache != nil {
		s.cache.InvalidateShop(ctx, shopID)
	}
}
