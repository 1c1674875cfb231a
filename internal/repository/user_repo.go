package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront_api/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户仓库接口
// 查询不到记录时返回 nil, nil
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// 店铺顾客
	JoinShop(ctx context.Context, userID, shopID int64) error
	ListCustomers(ctx context.Context, shopID int64, page, pageSize int) ([]model.User, int64, error)
	CountCustomers(ctx context.Context, shopID int64) (int64, error)

	// 收货地址
	CreateAddress(ctx context.Context, address *model.CustomerAddress) error
	GetAddress(ctx context.Context, id int64) (*model.CustomerAddress, error)
	ListAddresses(ctx context.Context, customerID int64) ([]model.CustomerAddress, error)

	// 事务
	WithTx(tx *gorm.DB) UserRepository
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

// GetByID 根据 ID 获取用户，店主附带店铺
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Shop").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Shop").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

// Update 更新用户
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// UpdateLastLogin 更新最后登录时间，原值移入 previous_login_at
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"previous_login_at": gorm.Expr("last_login_at"),
			"last_login_at":     time.Now(),
		}).Error
}

// ExistsByEmail 邮箱是否已注册
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// JoinShop 顾客加入店铺，重复加入忽略
func (r *userRepository) JoinShop(ctx context.Context, userID, shopID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ShopCustomer{UserID: userID, ShopID: shopID}).Error
}

// ListCustomers 店铺顾客列表
func (r *userRepository) ListCustomers(ctx context.Context, shopID int64, page, pageSize int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN shop_customers ON shop_customers.user_id = users.id").
		Where("shop_customers.shop_id = ?", shopID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := query.
		Order("shop_customers.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&users).Error
	return users, total, err
}

// CountCustomers 店铺顾客数
func (r *userRepository) CountCustomers(ctx context.Context, shopID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ShopCustomer{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	return count, err
}

// CreateAddress 新增收货地址
func (r *userRepository) CreateAddress(ctx context.Context, address *model.CustomerAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// GetAddress 获取收货地址
func (r *userRepository) GetAddress(ctx context.Context, id int64) (*model.CustomerAddress, error) {
	var address model.CustomerAddress
	err := r.db.WithContext(ctx).First(&address, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &address, err
}

// ListAddresses 顾客收货地址列表
func (r *userRepository) ListAddresses(ctx context.Context, customerID int64) ([]model.CustomerAddress, error) {
	var addresses []model.CustomerAddress
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}
