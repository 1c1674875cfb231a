package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_api/internal/model"
)

// ==================== 接口定义 ====================

// ShopRepository 店铺仓储接口
type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	GetByOwnerID(ctx context.Context, ownerID int64) (*model.Shop, error)
	GetByDomain(ctx context.Context, domain string) (*model.Shop, error)
	Update(ctx context.Context, shop *model.Shop) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)

	// 事务
	WithTx(tx *gorm.DB) ShopRepository
}

// ==================== 仓储实现 ====================

// shopRepo 店铺仓储实现
type shopRepo struct {
	db *gorm.DB
}

// NewShopRepository 创建店铺仓储
func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepo{db: db}
}

func (r *shopRepo) Create(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(shop).Error
}

func (r *shopRepo) GetByID(ctx context.Context, id int64) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) GetByOwnerID(ctx context.Context, ownerID int64) (*model.Shop, error) {
	var shop model.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// GetByDomain 按自定义域名或平台子域名查找
// 自定义域名精确匹配优先，其次匹配子域名
func (r *shopRepo) GetByDomain(ctx context.Context, domain string) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.WithContext(ctx).
		Where("subdomain = ? OR domain = ?", domain, domain).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "CASE WHEN domain = ? THEN 0 ELSE 1 END, id",
			Vars: []interface{}{domain},
		}}).
		Take(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepo) Update(ctx context.Context, shop *model.Shop) error {
	return r.db.WithContext(ctx).Omit("Owner").Save(shop).Error
}

// Delete 删除店铺及其合集、商品、订单
func (r *shopRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderIDs := tx.Model(&model.Order{}).Select("id").Where("shop_id = ?", id)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", id).Delete(&model.Order{}).Error; err != nil {
			return err
		}
		if err := deleteProducts(tx, tx.Model(&model.Product{}).Select("id").Where("shop_id = ?", id)); err != nil {
			return err
		}
		collectionIDs := tx.Model(&model.Collection{}).Select("id").Where("shop_id = ?", id)
		if err := tx.Where("collection_id IN (?)", collectionIDs).Delete(&model.ProductCollection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", id).Delete(&model.Collection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", id).Delete(&model.ShopCustomer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Shop{}, id).Error
	})
}

func (r *shopRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Shop{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *shopRepo) WithTx(tx *gorm.DB) ShopRepository {
	return &shopRepo{db: tx}
}
