package controller

import (
	"github.com/gin-gonic/gin"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/service"
)

// ==================== ShopController 店铺控制器 ====================

type ShopController struct {
	shopSvc       *service.ShopService
	dashboardSvc  *service.DashboardService
	storefrontSvc *service.StorefrontService
}

func NewShopController(
	shopSvc *service.ShopService,
	dashboardSvc *service.DashboardService,
	storefrontSvc *service.StorefrontService,
) *ShopController {
	return &ShopController{
		shopSvc:       shopSvc,
		dashboardSvc:  dashboardSvc,
		storefrontSvc: storefrontSvc,
	}
}

// Get 店铺详情
// @Summary 店铺详情
// @Tags Shop (店铺)
// @Produce json
// @Param shop_id path int true "店铺ID"
// @Success 200 {object} map[string]interface{} "data: model.Shop"
// @Failure 404 {object} map[string]interface{}
// @Router /api/shop/{shop_id} [get]
func (ctl *ShopController) Get(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	shop, err := ctl.shopSvc.Get(c.Request.Context(), shopID)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", shop)
}

// Update 更新店铺资料
// @Summary 更新店铺资料
// @Tags Shop (店铺)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param request body dto.ShopUpdateReq true "店铺资料"
// @Success 200 {object} map[string]interface{} "data: model.Shop"
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "域名已被占用"
// @Router /api/shop/{shop_id} [put]
// @Router /api/shop/{shop_id} [patch]
func (ctl *ShopController) Update(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	var req dto.ShopUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	shop, err := ctl.shopSvc.Update(c.Request.Context(), shopID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "更新成功", shop)
}

// Delete 删除店铺
// @Summary 删除店铺
// @Description 同时删除合集、商品、订单
// @Tags Shop (店铺)
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/shop/{shop_id} [delete]
func (ctl *ShopController) Delete(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	if err := ctl.shopSvc.Delete(c.Request.Context(), shopID); err != nil {
		handleError(c, err)
		return
	}
	success(c, "删除成功", nil)
}

// ListCustomers 店铺顾客列表
// @Summary 店铺顾客列表
// @Tags Shop (店铺)
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{} "data: dto.PageResp"
// @Router /api/customers/{shop_id} [get]
func (ctl *ShopController) ListCustomers(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	var page dto.PageReq
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	customers, total, err := ctl.shopSvc.ListCustomers(c.Request.Context(), shopID, &page)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", pageOf(customers, total, page))
}

// Dashboard 店主后台概览
// @Summary 店主后台概览
// @Tags Shop (店铺)
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "店主用户ID"
// @Success 200 {object} map[string]interface{} "data: dto.DashboardResp"
// @Failure 404 {object} map[string]interface{}
// @Router /api/getshop/{user_id} [get]
func (ctl *ShopController) Dashboard(c *gin.Context) {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	resp, err := ctl.dashboardSvc.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", resp)
}

// Storefront 店铺前台首页
// @Summary 店铺前台首页
// @Description 按子域名或自定义域名返回店铺、前 8 个已发布商品和启用的合集
// @Tags Storefront (前台)
// @Produce json
// @Param domain path string true "子域名或自定义域名"
// @Success 200 {object} map[string]interface{} "data: dto.StorefrontResp"
// @Failure 404 {object} map[string]interface{}
// @Router /api/storefront/{domain} [get]
func (ctl *ShopController) Storefront(c *gin.Context) {
	resp, err := ctl.storefrontSvc.Get(c.Request.Context(), c.Param("domain"))
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", resp)
}
