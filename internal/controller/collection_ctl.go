package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_api/internal/service"
)

var collectionForm = formSpec{
	JSON:  []string{"products"},
	Bools: []string{"is_active"},
}

// ==================== CollectionController 合集控制器 ====================

type CollectionController struct {
	collectionSvc *service.CollectionService
}

func NewCollectionController(collectionSvc *service.CollectionService) *CollectionController {
	return &CollectionController{collectionSvc: collectionSvc}
}

// List 合集列表
// @Summary 合集列表
// @Tags Collection (合集)
// @Produce json
// @Param shop_id path int true "店铺ID"
// @Success 200 {object} map[string]interface{} "data: []model.Collection"
// @Router /api/shop/{shop_id}/collections [get]
func (ctl *CollectionController) List(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	collections, err := ctl.collectionSvc.List(c.Request.Context(), shopID)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", collections)
}

// Get 合集详情
// @Summary 合集详情
// @Tags Collection (合集)
// @Produce json
// @Param shop_id path int true "店铺ID"
// @Param lookup path string true "合集ID或handle"
// @Success 200 {object} map[string]interface{} "data: model.Collection"
// @Failure 404 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/collections/{lookup} [get]
func (ctl *CollectionController) Get(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	collection, err := ctl.collectionSvc.Get(c.Request.Context(), shopID, paramLookup(c))
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", collection)
}

// Create 创建合集
// @Summary 创建合集
// @Description products 为 [{"name": "..."}]，按名称在本店铺内匹配商品
// @Tags Collection (合集)
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param request body dto.CollectionReq true "合集"
// @Success 201 {object} map[string]interface{} "data: model.Collection"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "商品名称不存在"
// @Failure 409 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/collections [post]
func (ctl *CollectionController) Create(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	in, err := bindCollectionInput(c)
	if err != nil {
		bindError(c, err)
		return
	}

	collection, err := ctl.collectionSvc.Create(c.Request.Context(), shopID, in)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "创建成功", collection)
}

// Update 更新合集
// @Summary 更新合集
// @Tags Collection (合集)
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param lookup path string true "合集ID或handle"
// @Param request body dto.CollectionReq true "合集"
// @Success 200 {object} map[string]interface{} "data: model.Collection"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/collections/{lookup} [put]
// @Router /api/shop/{shop_id}/collections/{lookup} [patch]
func (ctl *CollectionController) Update(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	in, err := bindCollectionInput(c)
	if err != nil {
		bindError(c, err)
		return
	}

	partial := c.Request.Method == http.MethodPatch
	collection, err := ctl.collectionSvc.Update(c.Request.Context(), shopID, paramLookup(c), in, partial)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "更新成功", collection)
}

// Delete 删除合集
// @Summary 删除合集
// @Tags Collection (合集)
// @Produce json
// @Security BearerAuth
// @Param shop_id path int true "店铺ID"
// @Param lookup path string true "合集ID或handle"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/shop/{shop_id}/collections/{lookup} [delete]
func (ctl *CollectionController) Delete(c *gin.Context) {
	shopID, ok := paramID(c, "shop_id")
	if !ok {
		return
	}

	if err := ctl.collectionSvc.Delete(c.Request.Context(), shopID, paramLookup(c)); err != nil {
		handleError(c, err)
		return
	}
	success(c, "删除成功", nil)
}

func bindCollectionInput(c *gin.Context) (*service.CollectionInput, error) {
	in := &service.CollectionInput{}
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&in.CollectionReq); err != nil {
			return nil, err
		}
		return in, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	if err := decodeForm(form, collectionForm, &in.CollectionReq); err != nil {
		return nil, err
	}
	if in.ImageFile, err = readFirstFile(form, "image"); err != nil {
		return nil, err
	}
	return in, nil
}
