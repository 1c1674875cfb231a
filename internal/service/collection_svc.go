package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// CollectionInput 合集写入参数
type CollectionInput struct {
	dto.CollectionReq
	// ImageFile multipart 上传的合集图片
	ImageFile *ImageFile
}

// ==================== CollectionService 合集服务 ====================

// CollectionService 合集服务
// 商品按名称关联，查找范围限定在合集所属店铺
type CollectionService struct {
	catalog  *repository.CatalogUnitOfWork
	shopRepo repository.ShopRepository
	storage  *StorageService
	cache    ShopCacheInvalidator
	logger   *zap.Logger
}

// NewCollectionService 创建合集服务
func NewCollectionService(
	catalog *repository.CatalogUnitOfWork,
	shopRepo repository.ShopRepository,
	storage *StorageService,
	cache ShopCacheInvalidator,
	logger *zap.Logger,
) *CollectionService {
	return &CollectionService{
		catalog:  catalog,
		shopRepo: shopRepo,
		storage:  storage,
		cache:    cache,
		logger:   logger.Named("collection"),
	}
}

// List 店铺全部合集
func (s *CollectionService) List(ctx context.Context, shopID int64) ([]model.Collection, error) {
	return s.catalog.Collections.List(ctx, repository.CollectionFilter{ShopID: shopID, WithProducts: true})
}

// Get 按 ID 或 handle 获取合集
func (s *CollectionService) Get(ctx context.Context, shopID int64, lookup repository.Lookup) (*model.Collection, error) {
	collection, err := s.catalog.Collections.GetByLookup(ctx, shopID, lookup)
	if err != nil {
		return nil, wrapDBError(err, "合集 "+lookup.String())
	}
	return collection, nil
}

// Create 创建合集并按名称关联商品
func (s *CollectionService) Create(ctx context.Context, shopID int64, in *CollectionInput) (*model.Collection, error) {
	exists, err := s.shopRepo.Exists(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("店铺 %d", shopID)
	}

	collection := &model.Collection{ShopID: shopID}
	applyCollectionFields(collection, &in.CollectionReq)
	if in.Handle == nil {
		collection.Handle = Slugify(collection.Name)
	}
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	stage := newImageStage(s.storage, s.logger, "collection")
	if err := stageCollectionImage(ctx, stage, collection, in); err != nil {
		stage.discard(ctx)
		return nil, err
	}

	err = s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if err := uow.Collections.Create(ctx, collection); err != nil {
			return wrapDBError(err, "合集 "+collection.Handle)
		}
		return replaceCollectionProducts(ctx, uow, shopID, collection.ID, in.Products)
	})
	if err != nil {
		stage.discard(ctx)
		return nil, err
	}

	s.logger.Info("合集已创建", zap.Int64("shop_id", shopID), zap.Int64("collection_id", collection.ID))
	s.invalidate(ctx, shopID)
	return s.Get(ctx, shopID, repository.Lookup{ID: collection.ID})
}

// Update 更新合集；商品关联先清空再按名称重新添加
// partial 为 true (PATCH) 时 products 未出现则保留原关联
func (s *CollectionService) Update(ctx context.Context, shopID int64, lookup repository.Lookup, in *CollectionInput, partial bool) (*model.Collection, error) {
	collection, err := s.Get(ctx, shopID, lookup)
	if err != nil {
		return nil, err
	}
	oldImage := collection.Image

	applyCollectionFields(collection, &in.CollectionReq)
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	stage := newImageStage(s.storage, s.logger, "collection")
	if err := stageCollectionImage(ctx, stage, collection, in); err != nil {
		stage.discard(ctx)
		return nil, err
	}

	err = s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if err := uow.Collections.Update(ctx, collection); err != nil {
			return wrapDBError(err, "合集 "+collection.Handle)
		}
		if partial && in.Products == nil {
			return nil
		}
		return replaceCollectionProducts(ctx, uow, shopID, collection.ID, in.Products)
	})
	if err != nil {
		stage.discard(ctx)
		return nil, err
	}

	if oldImage != "" && oldImage != collection.Image {
		removeFiles(ctx, s.storage, s.logger, []string{oldImage})
	}
	s.invalidate(ctx, shopID)
	return s.Get(ctx, shopID, repository.Lookup{ID: collection.ID})
}

// Delete 删除合集，商品本身不受影响
func (s *CollectionService) Delete(ctx context.Context, shopID int64, lookup repository.Lookup) error {
	collection, err := s.Get(ctx, shopID, lookup)
	if err != nil {
		return err
	}
	if err := s.catalog.Collections.Delete(ctx, collection.ID); err != nil {
		return err
	}

	removeFiles(ctx, s.storage, s.logger, []string{collection.Image})
	s.logger.Info("合集已删除", zap.Int64("shop_id", shopID), zap.Int64("collection_id", collection.ID))
	s.invalidate(ctx, shopID)
	return nil
}

func (s *CollectionService) invalidate(ctx context.Context, shopID int64) {
	if s.cache != nil {
		s.cache.InvalidateShop(ctx, shopID)
	}
}

// replaceCollectionProducts 按名称在店铺内解析商品并替换关联
// 名称不存在返回 ErrNotFound，同名商品多于一个返回 ValidationError
func replaceCollectionProducts(ctx context.Context, uow *repository.CatalogUnitOfWork, shopID, collectionID int64, refs []dto.CollectionProductRef) error {
	ids := make([]int64, 0, len(refs))
	for i, ref := range refs {
		products, err := uow.Products.ListByName(ctx, shopID, ref.Name)
		if err != nil {
			return err
		}
		switch len(products) {
		case 0:
			return notFound("商品 %q", ref.Name)
		case 1:
			ids = append(ids, products[0].ID)
		default:
			return NewValidationError(fmt.Sprintf("products[%d]", i), fmt.Sprintf("存在多个名为 %q 的商品", ref.Name))
		}
	}
	if err := uow.Collections.ReplaceProducts(ctx, collectionID, ids); err != nil {
		return wrapDBError(err, "合集商品关联")
	}
	return nil
}

// stageCollectionImage 图片为表单文件或 data URL 时上传，其它值保留原图
func stageCollectionImage(ctx context.Context, stage *imageStage, c *model.Collection, in *CollectionInput) error {
	switch {
	case in.ImageFile != nil:
		url, err := stage.uploadFile(ctx, *in.ImageFile)
		if err != nil {
			return err
		}
		c.Image = url
	case in.Image != nil && IsDataURL(*in.Image):
		url, err := stage.uploadDataURL(ctx, *in.Image)
		if err != nil {
			return err
		}
		c.Image = url
	}
	return nil
}

func applyCollectionFields(c *model.Collection, req *dto.CollectionReq) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Handle != nil {
		c.Handle = *req.Handle
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
}

func validateCollection(c *model.Collection) error {
	verr := &ValidationError{}
	if c.Name == "" {
		verr.Add("name", "必填")
	}
	switch {
	case c.Handle == "":
		verr.Add("handle", "无法由名称生成，请手动填写")
	case !dto.IsValidHandle(c.Handle):
		verr.Add("handle", "只能包含小写字母、数字和连字符")
	case isNumeric(c.Handle):
		verr.Add("handle", "不能为纯数字")
	}
	return verr.OrNil()
}
