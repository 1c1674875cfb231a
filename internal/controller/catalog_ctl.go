package controller

import (
	"github.com/gin-gonic/gin"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/middleware"
	"storefront_api/internal/service"
)

// ==================== OptionController 选项控制器 ====================

type OptionController struct {
	optionSvc *service.OptionService
}

func NewOptionController(optionSvc *service.OptionService) *OptionController {
	return &OptionController{optionSvc: optionSvc}
}

// List 商品选项列表
// @Summary 商品选项列表
// @Tags Option (选项)
// @Produce json
// @Security BearerAuth
// @Param product query int true "商品ID"
// @Success 200 {object} map[string]interface{} "data: []model.ProductOption"
// @Router /api/options [get]
func (ctl *OptionController) List(c *gin.Context) {
	var req dto.CatalogListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	options, err := ctl.optionSvc.List(c.Request.Context(), middleware.GetShopID(c), req.Product)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", options)
}

// Create 批量创建选项
// @Summary 批量创建选项
// @Tags Option (选项)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.OptionBulkCreateReq true "选项"
// @Success 201 {object} map[string]interface{} "data: []model.ProductOption"
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/options [post]
func (ctl *OptionController) Create(c *gin.Context) {
	var req dto.OptionBulkCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	options, err := ctl.optionSvc.BulkCreate(c.Request.Context(), middleware.GetShopID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "创建成功", options)
}

// Get 选项详情
// @Summary 选项详情
// @Tags Option (选项)
// @Produce json
// @Security BearerAuth
// @Param id path int true "选项ID"
// @Success 200 {object} map[string]interface{} "data: model.ProductOption"
// @Failure 404 {object} map[string]interface{}
// @Router /api/options/{id} [get]
func (ctl *OptionController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	option, err := ctl.optionSvc.Get(c.Request.Context(), middleware.GetShopID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", option)
}

// Update 更新选项
// @Summary 更新选项
// @Description 带 id 的值改名，不带 id 的值新建，未出现的已有值删除；values 缺省时不改动选项值
// @Tags Option (选项)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "选项ID"
// @Param request body dto.OptionUpdateReq true "选项"
// @Success 200 {object} map[string]interface{} "data: model.ProductOption"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/options/{id} [put]
// @Router /api/options/{id} [patch]
func (ctl *OptionController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.OptionUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	option, err := ctl.optionSvc.Update(c.Request.Context(), middleware.GetShopID(c), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "更新成功", option)
}

// Delete 删除选项
// @Summary 删除选项
// @Tags Option (选项)
// @Produce json
// @Security BearerAuth
// @Param id path int true "选项ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/options/{id} [delete]
func (ctl *OptionController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctl.optionSvc.Delete(c.Request.Context(), middleware.GetShopID(c), id); err != nil {
		handleError(c, err)
		return
	}
	success(c, "删除成功", nil)
}

// ==================== VariantController 变体控制器 ====================

type VariantController struct {
	variantSvc *service.VariantService
}

func NewVariantController(variantSvc *service.VariantService) *VariantController {
	return &VariantController{variantSvc: variantSvc}
}

// List 商品变体列表
// @Summary 商品变体列表
// @Tags Variant (变体)
// @Produce json
// @Security BearerAuth
// @Param product query int true "商品ID"
// @Success 200 {object} map[string]interface{} "data: []model.ProductVariant"
// @Router /api/variants [get]
func (ctl *VariantController) List(c *gin.Context) {
	var req dto.CatalogListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	variants, err := ctl.variantSvc.List(c.Request.Context(), middleware.GetShopID(c), req.Product)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", variants)
}

// Create 创建变体
// @Summary 创建变体
// @Description values 为 [{"name": "..."}]，在所属商品的选项值中按名称匹配
// @Tags Variant (变体)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VariantCreateReq true "变体"
// @Success 201 {object} map[string]interface{} "data: model.ProductVariant"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/variants [post]
func (ctl *VariantController) Create(c *gin.Context) {
	var req dto.VariantCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	variant, err := ctl.variantSvc.Create(c.Request.Context(), middleware.GetShopID(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "创建成功", variant)
}

// Get 变体详情
// @Summary 变体详情
// @Tags Variant (变体)
// @Produce json
// @Security BearerAuth
// @Param id path int true "变体ID"
// @Success 200 {object} map[string]interface{} "data: model.ProductVariant"
// @Failure 404 {object} map[string]interface{}
// @Router /api/variants/{id} [get]
func (ctl *VariantController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	variant, err := ctl.variantSvc.Get(c.Request.Context(), middleware.GetShopID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", variant)
}

// Update 更新变体
// @Summary 更新变体
// @Tags Variant (变体)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "变体ID"
// @Param request body dto.VariantUpdateReq true "变体"
// @Success 200 {object} map[string]interface{} "data: model.ProductVariant"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/variants/{id} [put]
// @Router /api/variants/{id} [patch]
func (ctl *VariantController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req dto.VariantUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	variant, err := ctl.variantSvc.Update(c.Request.Context(), middleware.GetShopID(c), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "更新成功", variant)
}

// Delete 删除变体
// @Summary 删除变体
// @Tags Variant (变体)
// @Produce json
// @Security BearerAuth
// @Param id path int true "变体ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/variants/{id} [delete]
func (ctl *VariantController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctl.variantSvc.Delete(c.Request.Context(), middleware.GetShopID(c), id); err != nil {
		handleError(c, err)
		return
	}
	success(c, "删除成功", nil)
}
