package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// ==================== OptionService 选项服务 ====================

// OptionService 单独维护商品选项，更新时对选项值做增量对账
type OptionService struct {
	catalog *repository.CatalogUnitOfWork
	cache   ShopCacheInvalidator
	logger  *zap.Logger
}

// NewOptionService 创建选项服务
func NewOptionService(catalog *repository.CatalogUnitOfWork, cache ShopCacheInvalidator, logger *zap.Logger) *OptionService {
	return &OptionService{catalog: catalog, cache: cache, logger: logger.Named("option")}
}

// List 商品的全部选项
func (s *OptionService) List(ctx context.Context, shopID, productID int64) ([]model.ProductOption, error) {
	if productID == 0 {
		return nil, NewValidationError("product", "必填")
	}
	if _, err := productInShop(ctx, s.catalog.Products, shopID, productID); err != nil {
		return nil, err
	}
	return s.catalog.Options.List(ctx, productID)
}

// Get 获取选项
func (s *OptionService) Get(ctx context.Context, shopID, id int64) (*model.ProductOption, error) {
	return s.load(ctx, s.catalog, shopID, id)
}

// BulkCreate 批量创建选项，任一失败则全部回滚
func (s *OptionService) BulkCreate(ctx context.Context, shopID int64, req *dto.OptionBulkCreateReq) ([]model.ProductOption, error) {
	created := make([]model.ProductOption, 0, len(req.Options))
	err := s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		for _, item := range req.Options {
			if _, err := productInShop(ctx, uow.Products, shopID, item.Product); err != nil {
				return err
			}
			option := model.ProductOption{ProductID: item.Product, Name: item.Name}
			for _, v := range item.Values {
				option.Values = append(option.Values, model.OptionValue{Name: v.Name})
			}
			if err := uow.Options.Create(ctx, &option); err != nil {
				return wrapDBError(err, "选项 "+item.Name)
			}
			created = append(created, option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, shopID)
	return created, nil
}

// Update 更新选项名称，并按 values 对选项值增量对账:
// 带 id 的值原地改名 (id 必须属于该选项)，不带 id 的值新建，
// 未出现在请求中的已有值删除 (同时解除变体关联)。values 未出现时不改动选项值
func (s *OptionService) Update(ctx context.Context, shopID, id int64, req *dto.OptionUpdateReq) (*model.ProductOption, error) {
	err := s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		option, err := s.load(ctx, uow, shopID, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			if err := uow.Options.UpdateName(ctx, id, *req.Name); err != nil {
				return wrapDBError(err, "选项")
			}
		}
		if req.Values == nil {
			return nil
		}
		return reconcileValues(ctx, uow.Options, option, req.Values)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, shopID)
	return s.Get(ctx, shopID, id)
}

// Delete 删除选项及其值
func (s *OptionService) Delete(ctx context.Context, shopID, id int64) error {
	err := s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if _, err := s.load(ctx, uow, shopID, id); err != nil {
			return err
		}
		return uow.Options.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("选项已删除", zap.Int64("shop_id", shopID), zap.Int64("option_id", id))
	s.invalidate(ctx, shopID)
	return nil
}

func (s *OptionService) load(ctx context.Context, uow *repository.CatalogUnitOfWork, shopID, id int64) (*model.ProductOption, error) {
	option, err := uow.Options.GetByID(ctx, id)
	if err != nil {
		return nil, wrapDBError(err, fmt.Sprintf("选项 %d", id))
	}
	if _, err := productInShop(ctx, uow.Products, shopID, option.ProductID); err != nil {
		return nil, err
	}
	return option, nil
}

func (s *OptionService) invalidate(ctx context.Context, shopID int64) {
	if s.cache != nil {
		s.cache.InvalidateShop(ctx, shopID)
	}
}

// reconcileValues 选项值增量对账
func reconcileValues(ctx context.Context, options repository.OptionRepository, option *model.ProductOption, values []dto.OptionValueReq) error {
	current := make(map[int64]bool, len(option.Values))
	for _, v := range option.Values {
		current[v.ID] = true
	}

	keep := make(map[int64]bool, len(values))
	for _, v := range values {
		if v.ID != nil {
			if !current[*v.ID] {
				return notFound("选项 %d 的选项值 %d", option.ID, *v.ID)
			}
			if err := options.UpdateValueName(ctx, *v.ID, v.Name); err != nil {
				return wrapDBError(err, "选项值")
			}
			keep[*v.ID] = true
			continue
		}

		value := &model.OptionValue{OptionID: option.ID, Name: v.Name}
		if err := options.CreateValue(ctx, value); err != nil {
			return wrapDBError(err, "选项值 "+v.Name)
		}
		keep[value.ID] = true
	}

	var stale []int64
	for _, v := range option.Values {
		if !keep[v.ID] {
			stale = append(stale, v.ID)
		}
	}
	return options.DeleteValues(ctx, stale)
}
