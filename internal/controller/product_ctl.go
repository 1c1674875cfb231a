package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/service"
)

// productForm multipart 请求中商品字段的解码方式
var productForm = formSpec{
	JSON: []string{"options", "variants", "collections"},
	List: []string{"uploaded_images"},
}

// ==================== ProductController 商品控制器 ====================

type ProductController struct {
	productSvc *service.ProductService
}

func NewProductController(productSvc *service.ProductService) *ProductController {
	return &ProductController{productSvc: productSvc}
}

// List 商品列表
// @Summary 商品列表
// @Tags Product (商品)
// @Produce json
// @Param shop_id path int true "店铺ID"
// @Param status query string false "PUBLISHED / DRAFT"
// @Param keyword query string false "名称关键词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{} "data: dto.PageResp"
// @Failure 400 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/products [get]
func (ctl *ProductController) List(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	var req dto.ProductListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	products, total, err := ctl.productSvc.List(c.Request.Context(), shopID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", pageOf(dto.NewProductRespList(products), total, req.PageReq))
}

// Get 商品详情
// @Summary 商品详情
// @Description lookup 为整数时按 ID 查询，否则按 handle 查询
// @Tags Product (商品)
// @Produce json
// @Param shop_id path int true "店铺ID"
// @Param lookup path string true "商品ID或handle"
// @Success 200 {object} map[string]interface{} "data: dto.ProductResp"
// @Failure 404 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/products/{lookup} [get]
func (ctl *ProductController) Get(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	product, err := ctl.productSvc.Get(c.Request.Context(), shopID, paramLookup(c))
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", dto.NewProductResp(product))
}

// Create 创建商品
// @Summary 创建商品
// @Description 同时创建选项、变体、图片并关联合集，支持 JSON 与 multipart/form-data
// @Tags Product (商品)
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param request body dto.ProductReq true "商品"
// @Success 201 {object} map[string]interface{} "data: dto.ProductResp"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "handle 重复"
// @Router /api/shop/{shop_id}/products [post]
func (ctl *ProductController) Create(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	in, err := bindProductInput(c)
	if err != nil {
		bindError(c, err)
		return
	}

	product, err := ctl.productSvc.Create(c.Request.Context(), shopID, in)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "创建成功", dto.NewProductResp(product))
}

// Update 更新商品 (PUT 全量 / PATCH 部分)
// @Summary 更新商品
// @Description 选项、变体、图片、合集整体替换；PATCH 时未出现的列表保持不变
// @Tags Product (商品)
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param lookup path string true "商品ID或handle"
// @Param request body dto.ProductReq true "商品"
// @Success 200 {object} map[string]interface{} "data: dto.ProductResp"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/products/{lookup} [put]
// @Router /api/shop/{shop_id}/products/{lookup} [patch]
func (ctl *ProductController) Update(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	in, err := bindProductInput(c)
	if err != nil {
		bindError(c, err)
		return
	}

	partial := c.Request.Method == http.MethodPatch
	product, err := ctl.productSvc.Update(c.Request.Context(), shopID, paramLookup(c), in, partial)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "更新成功", dto.NewProductResp(product))
}

// Delete 删除商品
// @Summary 删除商品
// @Tags Product (商品)
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param lookup path string true "商品ID或handle"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/products/{lookup} [delete]
func (ctl *ProductController) Delete(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	if err := ctl.productSvc.Delete(c.Request.Context(), shopID, paramLookup(c)); err != nil {
		handleError(c, err)
		return
	}
	success(c, "删除成功", nil)
}

// bindProductInput 解析 JSON 或 multipart 请求
func bindProductInput(c *gin.Context) (*service.ProductInput, error) {
	in := &service.ProductInput{}
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&in.ProductReq); err != nil {
			return nil, err
		}
		return in, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	if err := decodeForm(form, productForm, &in.ProductReq); err != nil {
		return nil, err
	}
	if in.Files, err = readFiles(form, "uploaded_images"); err != nil {
		return nil, err
	}
	if in.ThumbnailFile, err = readFirstFile(form, "thumbnail"); err != nil {
		return nil, err
	}
	return in, nil
}
