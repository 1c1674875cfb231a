package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/middleware"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// ==================== UserService 用户服务 ====================

// UserService 用户服务：注册、登录、Token 刷新、收货地址
type UserService struct {
	accounts *repository.AccountUnitOfWork
	logger   *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(accounts *repository.AccountUnitOfWork, logger *zap.Logger) *UserService {
	return &UserService{accounts: accounts, logger: logger.Named("user")}
}

// ==================== 认证相关 ====================

// Login 用户登录
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 查找用户
	user, err := s.accounts.Users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 检查状态
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 更新最后登录时间
	if err := s.accounts.Users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("更新登录时间失败", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return s.issueTokens(user)
}

// RefreshToken 刷新 Token
func (s *UserService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	// 解析 Refresh Token
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil || !claims.IsRefresh() {
		return nil, ErrInvalidToken
	}

	// 获取用户信息（确保用户仍然有效）
	user, err := s.accounts.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserDisabled
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshTokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
	}, nil
}

// ==================== 注册 ====================

// SignUpShopOwner 店主注册，用户与店铺在同一事务内创建
func (s *UserService) SignUpShopOwner(ctx context.Context, req *dto.ShopOwnerSignUpRequest) (*dto.LoginResponse, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:            normalizeEmail(req.Email),
		Password:         hashed,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		AcceptsMarketing: req.AcceptsMarketing,
		IsShopOwner:      true,
		IsActive:         true,
	}
	subdomain := req.Subdomain

	err = s.accounts.Transaction(ctx, func(uow *repository.AccountUnitOfWork) error {
		if err := s.ensureEmailFree(ctx, uow, user.Email); err != nil {
			return err
		}
		if err := uow.Users.Create(ctx, user); err != nil {
			return wrapDBError(err, "用户 "+user.Email)
		}

		shop := &model.Shop{
			OwnerID:   user.ID,
			Name:      req.ShopName,
			Email:     user.Email,
			Subdomain: &subdomain,
		}
		if err := uow.Shops.Create(ctx, shop); err != nil {
			return wrapDBError(err, "店铺子域名 "+subdomain)
		}
		user.Shop = shop
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("店主注册", zap.Int64("user_id", user.ID), zap.Int64("shop_id", user.Shop.ID))
	return s.issueTokens(user)
}

// SignUpCustomer 顾客注册并加入店铺
func (s *UserService) SignUpCustomer(ctx context.Context, req *dto.CustomerSignUpRequest) (*dto.LoginResponse, error) {
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:            normalizeEmail(req.Email),
		Password:         hashed,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		AcceptsMarketing: req.AcceptsMarketing,
		IsActive:         true,
	}

	err = s.accounts.Transaction(ctx, func(uow *repository.AccountUnitOfWork) error {
		exists, err := uow.Shops.Exists(ctx, req.Shop)
		if err != nil {
			return err
		}
		if !exists {
			return notFound("店铺 %d", req.Shop)
		}
		if err := s.ensureEmailFree(ctx, uow, user.Email); err != nil {
			return err
		}
		if err := uow.Users.Create(ctx, user); err != nil {
			return wrapDBError(err, "用户 "+user.Email)
		}
		return uow.Users.JoinShop(ctx, user.ID, req.Shop)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("顾客注册", zap.Int64("user_id", user.ID), zap.Int64("shop_id", req.Shop))
	return s.issueTokens(user)
}

// ==================== 收货地址 ====================

// CreateAddress 新增收货地址
func (s *UserService) CreateAddress(ctx context.Context, userID int64, req *dto.AddressRequest) (*model.CustomerAddress, error) {
	address := &model.CustomerAddress{
		CustomerID:    userID,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
		ZipCode:       req.ZipCode,
	}
	if err := s.accounts.Users.CreateAddress(ctx, address); err != nil {
		return nil, wrapDBError(err, "收货地址")
	}
	return address, nil
}

// ListAddresses 收货地址列表
func (s *UserService) ListAddresses(ctx context.Context, userID int64) ([]model.CustomerAddress, error) {
	return s.accounts.Users.ListAddresses(ctx, userID)
}

// ==================== 辅助方法 ====================

func (s *UserService) ensureEmailFree(ctx context.Context, uow *repository.AccountUnitOfWork, email string) error {
	exists, err := uow.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrEmailExists, email)
	}
	return nil
}

func (s *UserService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	sub := middleware.TokenSubject{
		UserID:      user.ID,
		Email:       user.Email,
		IsShopOwner: user.IsShopOwner,
	}
	if user.Shop != nil {
		sub.ShopID = user.Shop.ID
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(sub)
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
		User:         toUserInfo(user),
	}, nil
}

// toUserInfo 转换为 DTO
func toUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:               user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		AcceptsMarketing: user.AcceptsMarketing,
		IsShopOwner:      user.IsShopOwner,
		LastLoginAt:      user.LastLoginAt,
		CreatedAt:        user.CreatedAt,
	}
	if user.Shop != nil {
		info.ShopID = user.Shop.ID
	}
	return info
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ==================== 错误定义 ====================

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserDisabled       = errors.New("用户已被禁用")
	ErrInvalidToken       = errors.New("无效的 Token")
	ErrEmailExists        = fmt.Errorf("%w: 邮箱已被注册", ErrConstraintViolation)
)
