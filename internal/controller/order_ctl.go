package controller

import (
	"github.com/gin-gonic/gin"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/middleware"
	"storefront_api/internal/service"
)

// ==================== OrderController 订单控制器 ====================

type OrderController struct {
	orderSvc *service.OrderService
}

func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{orderSvc: orderSvc}
}

// PlaceOrder 下单
// @Summary 下单
// @Description total_price 按明细 price × quantity 冻结；total_cost 按当前变体价格实时计算
// @Tags Order (订单)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer_id path int true "顾客ID"
// @Param request body dto.PlaceOrderReq true "订单"
// @Success 201 {object} map[string]interface{} "data: dto.OrderResp"
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/place_order/{customer_id} [post]
func (ctl *OrderController) PlaceOrder(c *gin.Context) {
	customerID, ok := paramID(c, "customer_id")
	if !ok {
		return
	}

	var req dto.PlaceOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := ctl.orderSvc.PlaceOrder(c.Request.Context(), customerID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	created(c, "下单成功", dto.NewOrderResp(order))
}

// ListByCustomer 顾客订单列表
// @Summary 顾客订单列表
// @Tags Order (订单)
// @Produce json
// @Security BearerAuth
// @Param customer_id path int true "顾客ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} map[string]interface{} "data: dto.PageResp"
// @Router /api/place_order/{customer_id} [get]
func (ctl *OrderController) ListByCustomer(c *gin.Context) {
	customerID, ok := paramID(c, "customer_id")
	if !ok {
		return
	}

	var page dto.PageReq
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	orders, total, err := ctl.orderSvc.ListByCustomer(c.Request.Context(), customerID, &page)
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", pageOf(dto.NewOrderRespList(orders), total, page))
}

// Get 订单详情
// @Summary 订单详情
// @Tags Order (订单)
// @Produce json
// @Security BearerAuth
// @Param order_id path int true "订单ID"
// @Success 200 {object} map[string]interface{} "data: dto.OrderResp"
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/orders/{order_id} [get]
func (ctl *OrderController) Get(c *gin.Context) {
	orderID, ok := paramID(c, "order_id")
	if !ok {
		return
	}

	order, err := ctl.orderSvc.Get(c.Request.Context(), orderID, middleware.GetUserID(c), middleware.GetShopID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	success(c, "success", dto.NewOrderResp(order))
}
