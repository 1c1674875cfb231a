package controller

import (
	"github.com/gin-gonic/gin"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/middleware"
	"storefront_api/internal/service"
)

// ==================== UserController 用户控制器 ====================

// UserController 用户控制器
type UserController struct {
	userService *service.UserService
}

// NewUserController 创建用户控制器
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ==================== 认证接口 ====================

// Login 用户登录
// @Summary 用户登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/user/login [post]
func (ctl *UserController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := ctl.userService.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "登录成功", resp)
}

// RefreshToken 刷新 Token
// @Summary 刷新 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/token/refresh [post]
func (ctl *UserController) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := ctl.userService.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "刷新成功", resp)
}

// ==================== 注册 ====================

// SignUpShopOwner 店主注册
// @Summary 店主注册
// @Description 创建用户与店铺，返回 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ShopOwnerSignUpRequest true "注册信息"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "邮箱或子域名已被占用"
// @Router /api/sign-up/shop-owner [post]
func (ctl *UserController) SignUpShopOwner(c *gin.Context) {
	var req dto.ShopOwnerSignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := ctl.userService.SignUpShopOwner(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "注册成功", resp)
}

// SignUpCustomer 顾客注册
// @Summary 顾客注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.CustomerSignUpRequest true "注册信息"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "店铺不存在"
// @Failure 409 {object} map[string]interface{} "邮箱已被注册"
// @Router /api/sign-up/customer [post]
func (ctl *UserController) SignUpCustomer(c *gin.Context) {
	var req dto.CustomerSignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := ctl.userService.SignUpCustomer(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "注册成功", resp)
}

// ==================== 收货地址 ====================

// ListAddresses 当前用户的收货地址
// @Summary 收货地址列表
// @Tags Customer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "data: []model.CustomerAddress"
// @Router /api/customer/addresses [get]
func (ctl *UserController) ListAddresses(c *gin.Context) {
	addresses, err := ctl.userService.ListAddresses(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", addresses)
}

// CreateAddress 新增收货地址
// @Summary 新增收货地址
// @Tags Customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddressRequest true "地址"
// @Success 201 {object} map[string]interface{} "data: model.CustomerAddress"
// @Failure 400 {object} map[string]interface{}
// @Router /api/customer/addresses [post]
func (ctl *UserController) CreateAddress(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	address, err := ctl.userService.CreateAddress(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "创建成功", address)
}
