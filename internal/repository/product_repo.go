package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_api/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, product *model.Product) error
	GetByLookup(ctx context.Context, shopID int64, lookup Lookup) (*model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	ListByName(ctx context.Context, shopID int64, name string) ([]model.Product, error)
	CountByShop(ctx context.Context, shopID int64) (int64, error)

	// 合集关联
	ReplaceCollections(ctx context.Context, productID int64, collectionIDs []int64) error

	// 图片操作
	ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error)
	ReplaceImages(ctx context.Context, productID int64, urls []string) error

	// 事务
	WithTx(tx *gorm.DB) ProductRepository
	Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error
}

// ==================== 过滤条件 ====================

// ProductFilter 商品过滤条件
type ProductFilter struct {
	ShopID   int64
	Status   string
	Keyword  string
	Page     int
	PageSize int
	// Brief 为 true 时只查主表，不预加载子对象
	Brief bool
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

// preloadGraph 预加载完整商品图：选项/值、变体/值、图片、合集
func preloadGraph(db *gorm.DB) *gorm.DB {
	byCreated := func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }
	return db.
		Preload("Options", byCreated).
		Preload("Options.Values", byCreated).
		Preload("Variants", byCreated).
		Preload("Variants.Values").
		Preload("Images", byCreated).
		Preload("Collections")
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) GetByLookup(ctx context.Context, shopID int64, lookup Lookup) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Scopes(preloadGraph, lookup.scope("products")).
		Where("products.shop_id = ?", shopID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProducts(tx, idsOf(tx, &model.Product{}, []int64{id}))
	})
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.ShopID > 0 {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	if !filter.Brief {
		query = query.Scopes(preloadGraph)
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (r *productRepo) ListByName(ctx context.Context, shopID int64, name string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND name = ?", shopID, name).
		Limit(2).
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountByShop(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	return count, err
}

func (r *productRepo) ReplaceCollections(ctx context.Context, productID int64, collectionIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&model.ProductCollection{}).Error; err != nil {
		return err
	}
	if len(collectionIDs) == 0 {
		return nil
	}

	links := make([]model.ProductCollection, 0, len(collectionIDs))
	seen := make(map[int64]struct{}, len(collectionIDs))
	for _, id := range collectionIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, model.ProductCollection{ProductID: productID, CollectionID: id})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *productRepo) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var images []model.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *productRepo) ReplaceImages(ctx context.Context, productID int64, urls []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}

	images := make([]model.ProductImage, len(urls))
	for i, u := range urls {
		images[i] = model.ProductImage{ProductID: productID, Image: u}
	}
	return db.Create(&images).Error
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
