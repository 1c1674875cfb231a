package service

import (
	"context"

	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// ==================== 输入 ====================

// ProductInput 商品写入参数
// 列表字段为 nil 表示请求中未出现
type ProductInput struct {
	dto.ProductReq
	// Files multipart 上传的 uploaded_images 文件
	Files []ImageFile
	// ThumbnailFile multipart 上传的缩略图
	ThumbnailFile *ImageFile
}

// ShopCacheInvalidator 店铺数据变更后清理前台缓存
type ShopCacheInvalidator interface {
	InvalidateShop(ctx context.Context, shopID int64)
}

// ==================== ProductService 商品服务 ====================

// ProductService 商品服务，负责商品及其选项/变体/图片/合集关联的嵌套写入
type ProductService struct {
	catalog  *repository.CatalogUnitOfWork
	shopRepo repository.ShopRepository
	storage  *StorageService
	cache    ShopCacheInvalidator
	logger   *zap.Logger
}

// NewProductService 创建商品服务，cache 可为 nil
func NewProductService(
	catalog *repository.CatalogUnitOfWork,
	shopRepo repository.ShopRepository,
	storage *StorageService,
	cache ShopCacheInvalidator,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		catalog:  catalog,
		shopRepo: shopRepo,
		storage:  storage,
		cache:    cache,
		logger:   logger.Named("product"),
	}
}

// ==================== 查询 ====================

// Get 按 ID 或 handle 获取商品完整信息
func (s *ProductService) Get(ctx context.Context, shopID int64, lookup repository.Lookup) (*model.Product, error) {
	product, err := s.catalog.Products.GetByLookup(ctx, shopID, lookup)
	if err != nil {
		return nil, wrapDBError(err, "商品 "+lookup.String())
	}
	return product, nil
}

// List 店铺商品列表
func (s *ProductService) List(ctx context.Context, shopID int64, req *dto.ProductListReq) ([]model.Product, int64, error) {
	return s.catalog.Products.List(ctx, repository.ProductFilter{
		ShopID:   shopID,
		Status:   req.Status,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// ==================== 创建 ====================

// Create 创建商品及其选项、变体、图片和合集关联，全部在一个事务内完成
func (s *ProductService) Create(ctx context.Context, shopID int64, in *ProductInput) (*model.Product, error) {
	exists, err := s.shopRepo.Exists(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("店铺 %d", shopID)
	}

	product := &model.Product{ShopID: shopID, Status: model.ProductStatusPublished}
	applyProductFields(product, &in.ProductReq)
	if in.Handle == nil {
		product.Handle = Slugify(product.Name)
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	stage := newImageStage(s.storage, s.logger, "product")
	if err := s.stageThumbnail(ctx, stage, product, in); err != nil {
		stage.discard(ctx)
		return nil, err
	}
	urls, err := stage.resolve(ctx, in.UploadedImages, in.Files, nil)
	if err != nil {
		stage.discard(ctx)
		return nil, err
	}

	err = s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if err := uow.Products.Create(ctx, product); err != nil {
			return wrapDBError(err, "商品 "+product.Handle)
		}
		if err := createOptions(ctx, uow, product.ID, in.Options); err != nil {
			return err
		}
		if err := createVariants(ctx, uow, product.ID, in.Variants); err != nil {
			return err
		}
		if err := uow.Products.ReplaceImages(ctx, product.ID, urls); err != nil {
			return wrapDBError(err, "商品图片")
		}
		return replaceProductCollections(ctx, uow, shopID, product.ID, in.Collections)
	})
	if err != nil {
		stage.discard(ctx)
		return nil, err
	}

	s.logger.Info("商品已创建",
		zap.Int64("shop_id", shopID),
		zap.Int64("product_id", product.ID),
		zap.String("handle", product.Handle))
	s.invalidate(ctx, shopID)

	return s.Get(ctx, shopID, repository.Lookup{ID: product.ID})
}

// ==================== 更新 ====================

// Update 更新商品
// 选项、变体、图片、合集关联整体替换；partial 为 true (PATCH) 时未出现的列表保持不变，
// 为 false (PUT) 时未出现的列表视为空
func (s *ProductService) Update(ctx context.Context, shopID int64, lookup repository.Lookup, in *ProductInput, partial bool) (*model.Product, error) {
	product, err := s.Get(ctx, shopID, lookup)
	if err != nil {
		return nil, err
	}

	oldImages := imageURLs(product.Images)
	oldThumbnail := product.Thumbnail

	applyProductFields(product, &in.ProductReq)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	replaceImages := !partial || in.UploadedImages != nil || len(in.Files) > 0
	replaceCollections := !partial || in.Collections != nil
	replaceOptions := !partial || in.Options != nil
	replaceVariants := !partial || in.Variants != nil

	stage := newImageStage(s.storage, s.logger, "product")
	if err := s.stageThumbnail(ctx, stage, product, in); err != nil {
		stage.discard(ctx)
		return nil, err
	}
	newImages := oldImages
	if replaceImages {
		newImages, err = stage.resolve(ctx, in.UploadedImages, in.Files, oldImages)
		if err != nil {
			stage.discard(ctx)
			return nil, err
		}
	}

	err = s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		if err := uow.Products.Update(ctx, product); err != nil {
			return wrapDBError(err, "商品 "+product.Handle)
		}
		if replaceCollections {
			if err := replaceProductCollections(ctx, uow, shopID, product.ID, in.Collections); err != nil {
				return err
			}
		}
		if replaceImages {
			if err := uow.Products.ReplaceImages(ctx, product.ID, newImages); err != nil {
				return wrapDBError(err, "商品图片")
			}
		}
		if replaceOptions {
			if err := uow.Options.DeleteByProduct(ctx, product.ID); err != nil {
				return err
			}
			if err := createOptions(ctx, uow, product.ID, in.Options); err != nil {
				return err
			}
		}
		if replaceVariants {
			if err := uow.Variants.DeleteByProduct(ctx, product.ID); err != nil {
				return err
			}
			if err := createVariants(ctx, uow, product.ID, in.Variants); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		stage.discard(ctx)
		return nil, err
	}

	// 提交后清理不再引用的文件
	orphans := unreferenced(oldImages, newImages)
	if oldThumbnail != "" && oldThumbnail != product.Thumbnail {
		orphans = append(orphans, oldThumbnail)
	}
	removeFiles(ctx, s.storage, s.logger, orphans)

	s.logger.Info("商品已更新",
		zap.Int64("shop_id", shopID),
		zap.Int64("product_id", product.ID),
		zap.Bool("partial", partial))
	s.invalidate(ctx, shopID)

	return s.Get(ctx, shopID, repository.Lookup{ID: product.ID})
}

// ==================== 删除 ====================

// Delete 删除商品，级联删除选项、变体、图片、订单明细和合集关联
func (s *ProductService) Delete(ctx context.Context, shopID int64, lookup repository.Lookup) error {
	var files []string
	err := s.catalog.Transaction(ctx, func(uow *repository.CatalogUnitOfWork) error {
		product, err := uow.Products.GetByLookup(ctx, shopID, lookup)
		if err != nil {
			return wrapDBError(err, "商品 "+lookup.String())
		}
		files = append(imageURLs(product.Images), product.Thumbnail)
		return uow.Products.Delete(ctx, product.ID)
	})
	if err != nil {
		return err
	}

	removeFiles(ctx, s.storage, s.logger, files)
	s.logger.Info("商品已删除", zap.Int64("shop_id", shopID), zap.String("lookup", lookup.String()))
	s.invalidate(ctx, shopID)
	return nil
}

// ==================== 内部方法 ====================

// stageThumbnail 缩略图为表单文件或 data URL 时上传
func (s *ProductService) stageThumbnail(ctx context.Context, stage *imageStage, product *model.Product, in *ProductInput) error {
	switch {
	case in.ThumbnailFile != nil:
		url, err := stage.uploadFile(ctx, *in.ThumbnailFile)
		if err != nil {
			return err
		}
		product.Thumbnail = url
	case in.Thumbnail != nil && IsDataURL(*in.Thumbnail):
		url, err := stage.uploadDataURL(ctx, *in.Thumbnail)
		if err != nil {
			return err
		}
		product.Thumbnail = url
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, shopID int64) {
	if s.cache != nil {
		s.cache.InvalidateShop(ctx, shopID)
	}
}

// applyProductFields 只覆盖请求中出现的标量字段
// 缩略图为普通地址或空串时直接写入，data URL 由 stageThumbnail 上传
func applyProductFields(p *model.Product, req *dto.ProductReq) {
	if req.Thumbnail != nil && !IsDataURL(*req.Thumbnail) {
		p.Thumbnail = *req.Thumbnail
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Handle != nil {
		p.Handle = *req.Handle
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Weight != nil {
		p.Weight = *req.Weight
	}
	if req.Length != nil {
		p.Length = *req.Length
	}
	if req.Height != nil {
		p.Height = *req.Height
	}
	if req.Width != nil {
		p.Width = *req.Width
	}
}

func validateProduct(p *model.Product) error {
	verr := &ValidationError{}
	if p.Name == "" {
		verr.Add("name", "必填")
	}
	switch {
	case p.Handle == "":
		verr.Add("handle", "无法由名称生成，请手动填写")
	case !dto.IsValidHandle(p.Handle):
		verr.Add("handle", "只能包含小写字母、数字和连字符")
	case isNumeric(p.Handle):
		verr.Add("handle", "不能为纯数字")
	}
	if p.Status != model.ProductStatusPublished && p.Status != model.ProductStatusDraft {
		verr.Add("status", "取值必须为 PUBLISHED 或 DRAFT")
	}
	for field, v := range map[string]interface{ IsNegative() bool }{
		"price":  p.Price,
		"weight": p.Weight,
		"length": p.Length,
		"height": p.Height,
		"width":  p.Width,
	} {
		if v.IsNegative() {
			verr.Add(field, "不能为负数")
		}
	}
	return verr.OrNil()
}

func imageURLs(images []model.ProductImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.Image)
	}
	return urls
}
