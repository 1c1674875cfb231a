package dto

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// handlePattern URL 友好的 slug：小写字母、数字、连字符
var handlePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidHandle 校验 handle 格式
func IsValidHandle(s string) bool {
	return handlePattern.MatchString(s)
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
			return IsValidHandle(fl.Field().String())
		})
	}
}

// FieldErrors 将 validator 错误转换为 字段 -> 信息
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	for _, fe := range errs {
		fields[fe.Namespace()] = describe(fe)
	}
	return fields
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "必填"
	case "min":
		return "长度或数量不能小于 " + fe.Param()
	case "max":
		return "长度或数量不能大于 " + fe.Param()
	case "gte":
		return "不能小于 " + fe.Param()
	case "oneof":
		return "取值必须为 " + fe.Param() + " 之一"
	case "email":
		return "邮箱格式错误"
	case "handle":
		return "只能包含小写字母、数字和连字符"
	default:
		return "校验失败: " + fe.Tag()
	}
}
