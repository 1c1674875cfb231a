package repository

import (
	"context"

	"gorm.io/gorm"
)

// CatalogUnitOfWork 商品目录工作单元（事务）
// 嵌套写入（商品 + 选项 + 变体 + 图片 + 合集关联）在同一事务内完成
type CatalogUnitOfWork struct {
	db          *gorm.DB
	Products    ProductRepository
	Options     OptionRepository
	Variants    VariantRepository
	Collections CollectionRepository
}

// NewCatalogUnitOfWork 创建工作单元
func NewCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return &CatalogUnitOfWork{
		db:          db,
		Products:    NewProductRepository(db),
		Options:     NewOptionRepository(db),
		Variants:    NewVariantRepository(db),
		Collections: NewCollectionRepository(db),
	}
}

// Transaction 执行事务
func (u *CatalogUnitOfWork) Transaction(ctx context.Context, fn func(uow *CatalogUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCatalogUnitOfWork(tx))
	})
}
