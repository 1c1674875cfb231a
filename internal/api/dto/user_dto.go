package dto

import "time"

// ==================== 登录 ====================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=3,max=100"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *UserInfo `json:"user"`
}

// ==================== Token 刷新 ====================

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse 刷新 Token 响应
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ==================== 注册 ====================

// ShopOwnerSignUpRequest 店主注册，同时创建店铺
type ShopOwnerSignUpRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8,max=100"`
	FirstName        string `json:"first_name" binding:"max=150"`
	LastName         string `json:"last_name" binding:"max=150"`
	AcceptsMarketing bool   `json:"accepts_marketing"`
	ShopName         string `json:"shop_name" binding:"required,max=255"`
	Subdomain        string `json:"subdomain" binding:"required,max=255,handle"`
}

// CustomerSignUpRequest 顾客注册到某店铺
type CustomerSignUpRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8,max=100"`
	FirstName        string `json:"first_name" binding:"max=150"`
	LastName         string `json:"last_name" binding:"max=150"`
	AcceptsMarketing bool   `json:"accepts_marketing"`
	Shop             int64  `json:"shop" binding:"required"`
}

// AddressRequest 新增收货地址
type AddressRequest struct {
	StreetAddress string `json:"street_address" binding:"required,max=255"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"max=50"`
	Country       string `json:"country" binding:"required,max=100"`
	ZipCode       string `json:"zip_code" binding:"required,max=20"`
}

// ==================== 用户信息 ====================

// UserInfo 用户信息
type UserInfo struct {
	ID               int64      `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	AcceptsMarketing bool       `json:"accepts_marketing"`
	IsShopOwner      bool       `json:"is_shop_owner"`
	ShopID           int64      `json:"shop_id,omitempty"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
