package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_api/internal/model"
)

// ==================== 接口定义 ====================

// CollectionRepository 合集仓储接口
type CollectionRepository interface {
	Create(ctx context.Context, collection *model.Collection) error
	GetByLookup(ctx context.Context, shopID int64, lookup Lookup) (*model.Collection, error)
	Update(ctx context.Context, collection *model.Collection) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter CollectionFilter) ([]model.Collection, error)
	CountInShop(ctx context.Context, shopID int64, ids []int64) (int64, error)

	// 商品关联
	ReplaceProducts(ctx context.Context, collectionID int64, productIDs []int64) error

	// 事务
	WithTx(tx *gorm.DB) CollectionRepository
	Transaction(ctx context.Context, fn func(txRepo CollectionRepository) error) error
}

// CollectionFilter 合集过滤条件
type CollectionFilter struct {
	ShopID     int64
	ActiveOnly bool
	// WithProducts 是否预加载商品
	WithProducts bool
}

// ==================== 仓储实现 ====================

type collectionRepo struct {
	db *gorm.DB
}

// NewCollectionRepository 创建合集仓储
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) Create(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(collection).Error
}

func (r *collectionRepo) GetByLookup(ctx context.Context, shopID int64, lookup Lookup) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.WithContext(ctx).
		Preload("Products").
		Scopes(lookup.scope("collections")).
		Where("collections.shop_id = ?", shopID).
		First(&collection).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepo) Update(ctx context.Context, collection *model.Collection) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(collection).Error
}

func (r *collectionRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&model.ProductCollection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Collection{}, id).Error
	})
}

func (r *collectionRepo) List(ctx context.Context, filter CollectionFilter) ([]model.Collection, error) {
	var collections []model.Collection
	query := r.db.WithContext(ctx).Where("shop_id = ?", filter.ShopID)
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.WithProducts {
		query = query.Preload("Products")
	}
	err := query.Order("created_at ASC").Find(&collections).Error
	return collections, err
}

// CountInShop 统计 ids 中属于该店铺的合集数量
func (r *collectionRepo) CountInShop(ctx context.Context, shopID int64, ids []int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Collection{}).
		Where("shop_id = ? AND id IN ?", shopID, ids).
		Count(&count).Error
	return count, err
}

func (r *collectionRepo) ReplaceProducts(ctx context.Context, collectionID int64, productIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("collection_id = ?", collectionID).Delete(&model.ProductCollection{}).Error; err != nil {
		return err
	}
	if len(productIDs) == 0 {
		return nil
	}

	links := make([]model.ProductCollection, 0, len(productIDs))
	seen := make(map[int64]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		links = append(links, model.ProductCollection{ProductID: id, CollectionID: collectionID})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *collectionRepo) WithTx(tx *gorm.DB) CollectionRepository {
	return &collectionRepo{db: tx}
}

func (r *collectionRepo) Transaction(ctx context.Context, fn func(txRepo CollectionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
