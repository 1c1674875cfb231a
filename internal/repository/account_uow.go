package repository

import (
	"context"

	"gorm.io/gorm"
)

// AccountUnitOfWork 账号工作单元，注册时用户与店铺/店铺关系在同一事务内写入
type AccountUnitOfWork struct {
	db    *gorm.DB
	Users UserRepository
	Shops ShopRepository
}

// NewAccountUnitOfWork 创建工作单元
func NewAccountUnitOfWork(db *gorm.DB) *AccountUnitOfWork {
	return &AccountUnitOfWork{
		db:    db,
		Users: NewUserRepository(db),
		Shops: NewShopRepository(db),
	}
}

// Transaction 执行事务
func (u *AccountUnitOfWork) Transaction(ctx context.Context, fn func(uow *AccountUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewAccountUnitOfWork(tx))
	})
}
