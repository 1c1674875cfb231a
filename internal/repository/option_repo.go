package repository

import (
	"context"

	"gorm.io/gorm"

	"storefront_api/internal/model"
)

// ==================== 接口定义 ====================

// OptionRepository 商品选项仓储接口
type OptionRepository interface {
	Create(ctx context.Context, option *model.ProductOption) error
	GetByID(ctx context.Context, id int64) (*model.ProductOption, error)
	List(ctx context.Context, productID int64) ([]model.ProductOption, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	DeleteByProduct(ctx context.Context, productID int64) error

	// 选项值
	CreateValue(ctx context.Context, value *model.OptionValue) error
	UpdateValueName(ctx context.Context, valueID int64, name string) error
	DeleteValues(ctx context.Context, valueIDs []int64) error
	FindValuesByName(ctx context.Context, productID int64, name string) ([]model.OptionValue, error)

	// 事务
	WithTx(tx *gorm.DB) OptionRepository
	Transaction(ctx context.Context, fn func(txRepo OptionRepository) error) error
}

// ==================== 仓储实现 ====================

type optionRepo struct {
	db *gorm.DB
}

// NewOptionRepository 创建选项仓储
func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepo{db: db}
}

// Create 创建选项及其 Values
func (r *optionRepo) Create(ctx context.Context, option *model.ProductOption) error {
	return r.db.WithContext(ctx).Create(option).Error
}

func (r *optionRepo) GetByID(ctx context.Context, id int64) (*model.ProductOption, error) {
	var option model.ProductOption
	err := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&option, id).Error
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// List productID 为 0 时返回全部
func (r *optionRepo) List(ctx context.Context, productID int64) ([]model.ProductOption, error) {
	var options []model.ProductOption
	query := r.db.WithContext(ctx).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
	if productID > 0 {
		query = query.Where("product_id = ?", productID)
	}
	err := query.Order("created_at ASC").Find(&options).Error
	return options, err
}

func (r *optionRepo) UpdateName(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductOption{}).
		Where("id = ?", id).
		Update("name", name).Error
}

func (r *optionRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteOptions(tx, idsOf(tx, &model.ProductOption{}, []int64{id}))
	})
}

func (r *optionRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteOptions(tx, tx.Model(&model.ProductOption{}).Select("id").Where("product_id = ?", productID))
	})
}

func (r *optionRepo) CreateValue(ctx context.Context, value *model.OptionValue) error {
	return r.db.WithContext(ctx).Create(value).Error
}

func (r *optionRepo) UpdateValueName(ctx context.Context, valueID int64, name string) error {
	return r.db.WithContext(ctx).
		Model(&model.OptionValue{}).
		Where("id = ?", valueID).
		Update("name", name).Error
}

func (r *optionRepo) DeleteValues(ctx context.Context, valueIDs []int64) error {
	if len(valueIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteValues(tx, idsOf(tx, &model.OptionValue{}, valueIDs))
	})
}

// FindValuesByName 在商品全部选项值中按名称查找，只匹配本商品的选项
func (r *optionRepo) FindValuesByName(ctx context.Context, productID int64, name string) ([]model.OptionValue, error) {
	var values []model.OptionValue
	err := r.db.WithContext(ctx).
		Joins("JOIN product_options ON product_options.id = option_values.option_id").
		Where("product_options.product_id = ? AND option_values.name = ?", productID, name).
		Find(&values).Error
	return values, err
}

func (r *optionRepo) WithTx(tx *gorm.DB) OptionRepository {
	return &optionRepo{db: tx}
}

func (r *optionRepo) Transaction(ctx context.Context, fn func(txRepo OptionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
