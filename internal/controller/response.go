package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/repository"
	"storefront_api/internal/service"
)

// ==================== 统一响应 ====================
// 响应体格式 {"code": 0, "message": "...", "data": ...}，出错时 code 为 HTTP 状态码

func success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": message,
		"data":    data,
	})
}

func created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": message,
		"data":    data,
	})
}

func errorJSON(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{
		"code":    status,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// bindError 请求体/参数绑定失败
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		errorJSON(c, http.StatusBadRequest, "参数错误", dto.FieldErrors(verrs))
		return
	}
	errorJSON(c, http.StatusBadRequest, "参数错误: "+err.Error(), nil)
}

// handleError 业务错误映射为 HTTP 状态码
func handleError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		errorJSON(c, http.StatusBadRequest, "参数错误", verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		errorJSON(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrConstraintViolation):
		errorJSON(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		errorJSON(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrUserDisabled):
		errorJSON(c, http.StatusForbidden, err.Error(), nil)
	default:
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "服务器内部错误", nil)
	}
}

// ==================== 路径参数 ====================

// paramID 解析整数路径参数，失败时直接返回 400
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(c, http.StatusBadRequest, "无效的 "+name, nil)
		return 0, false
	}
	return id, true
}

// paramLookup 详情路径参数，整数按 ID 查询，否则按 handle
func paramLookup(c *gin.Context) repository.Lookup {
	return repository.ParseLookup(c.Param("lookup"))
}

// pageOf 分页响应
func pageOf(list interface{}, total int64, req dto.PageReq) dto.PageResp {
	page, size := req.Page, req.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return dto.PageResp{List: list, Total: total, Page: page, PageSize: size}
}
