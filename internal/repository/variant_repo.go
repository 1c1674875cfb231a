package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_api/internal/model"
)

// ==================== 接口定义 ====================

// VariantRepository 商品变体仓储接口
type VariantRepository interface {
	Create(ctx context.Context, variant *model.ProductVariant) error
	GetByID(ctx context.Context, id int64) (*model.ProductVariant, error)
	List(ctx context.Context, productID int64) ([]model.ProductVariant, error)
	Update(ctx context.Context, variant *model.ProductVariant) error
	Delete(ctx context.Context, id int64) error
	DeleteByProduct(ctx context.Context, productID int64) error

	// 选项值关联
	AttachValues(ctx context.Context, variantID int64, valueIDs []int64) error
	ClearValues(ctx context.Context, variantID int64) error

	// 事务
	WithTx(tx *gorm.DB) VariantRepository
	Transaction(ctx context.Context, fn func(txRepo VariantRepository) error) error
}

// ==================== 仓储实现 ====================

type variantRepo struct {
	db *gorm.DB
}

// NewVariantRepository 创建变体仓储
func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepo{db: db}
}

// Create 只写变体行，选项值通过 AttachValues 关联
func (r *variantRepo) Create(ctx context.Context, variant *model.ProductVariant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(variant).Error
}

func (r *variantRepo) GetByID(ctx context.Context, id int64) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.WithContext(ctx).Preload("Values").First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// List productID 为 0 时返回全部
func (r *variantRepo) List(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	var variants []model.ProductVariant
	query := r.db.WithContext(ctx).Preload("Values")
	if productID > 0 {
		query = query.Where("product_id = ?", productID)
	}
	err := query.Order("created_at ASC").Find(&variants).Error
	return variants, err
}

func (r *variantRepo) Update(ctx context.Context, variant *model.ProductVariant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(variant).Error
}

func (r *variantRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteVariants(tx, idsOf(tx, &model.ProductVariant{}, []int64{id}))
	})
}

func (r *variantRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteVariants(tx, tx.Model(&model.ProductVariant{}).Select("id").Where("product_id = ?", productID))
	})
}

func (r *variantRepo) AttachValues(ctx context.Context, variantID int64, valueIDs []int64) error {
	if len(valueIDs) == 0 {
		return nil
	}
	links := make([]model.VariantValue, len(valueIDs))
	for i, id := range valueIDs {
		links[i] = model.VariantValue{ProductVariantID: variantID, OptionValueID: id}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

func (r *variantRepo) ClearValues(ctx context.Context, variantID int64) error {
	return r.db.WithContext(ctx).
		Where("product_variant_id = ?", variantID).
		Delete(&model.VariantValue{}).Error
}

func (r *variantRepo) WithTx(tx *gorm.DB) VariantRepository {
	return &variantRepo{db: tx}
}

func (r *variantRepo) Transaction(ctx context.Context, fn func(txRepo VariantRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
