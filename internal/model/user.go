package model

import (
	"time"
)

// ==================== 用户 ====================

// User 账号 (店主或顾客)
type User struct {
	BaseModel
	Email            string     `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password         string     `gorm:"size:255;not null" json:"-"`
	FirstName        string     `gorm:"size:150" json:"first_name"`
	LastName         string     `gorm:"size:150" json:"last_name"`
	AcceptsMarketing bool       `gorm:"default:false" json:"accepts_marketing"`
	IsShopOwner      bool       `gorm:"default:false;index" json:"is_shop_owner"`
	IsStaff          bool       `gorm:"default:false" json:"is_staff"`
	IsActive         bool       `gorm:"default:true" json:"is_active"`
	ProfileComplete  bool       `gorm:"default:false" json:"profile_complete"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	PreviousLoginAt  *time.Time `json:"-"` // 概览页 "新订单" 的起点

	// 店主拥有的店铺 (一对一)
	Shop *Shop `gorm:"foreignKey:OwnerID" json:"shop,omitempty"`

	// 顾客注册过的店铺
	Shops     []Shop            `gorm:"many2many:shop_customers;" json:"-"`
	Addresses []CustomerAddress `gorm:"foreignKey:CustomerID" json:"addresses,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// FullName 显示名称
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ShopCustomer 店铺-顾客关联表
type ShopCustomer struct {
	UserID    int64 `gorm:"primaryKey"`
	ShopID    int64 `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

func (ShopCustomer) TableName() string {
	return "shop_customers"
}

// CustomerAddress 顾客收货地址
type CustomerAddress struct {
	BaseModel
	CustomerID    int64  `gorm:"index;not null" json:"customer_id"`
	StreetAddress string `gorm:"size:255;not null" json:"street_address"`
	City          string `gorm:"size:100;not null" json:"city"`
	State         string `gorm:"size:50" json:"state"`
	Country       string `gorm:"size:100;not null" json:"country"`
	ZipCode       string `gorm:"size:20;not null" json:"zip_code"`
}

func (CustomerAddress) TableName() string {
	return "customer_addresses"
}
