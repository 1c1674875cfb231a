package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"storefront_api/pkg/database"
)

// ==================== 错误类型 ====================

var (
	// ErrNotFound 引用的店铺/商品/合集/选项值/用户不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrConstraintViolation 唯一约束冲突（同店铺 handle 重复、ID 冲突等），由数据库报出
	ErrConstraintViolation = errors.New("违反唯一约束")
	// ErrForbidden 无权操作该资源
	ErrForbidden = errors.New("无权限访问")
)

// ValidationError 参数校验失败，按字段给出信息
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "参数校验失败: " + strings.Join(parts, "; ")
}

// Add 追加字段错误
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// OrNil 没有字段错误时返回 nil
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError 单字段校验错误
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// notFound 包装 ErrNotFound
func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// wrapDBError 将存储层错误转换为业务错误
func wrapDBError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return notFound("%s", what)
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%w: %s: %v", ErrConstraintViolation, what, err)
	case database.IsForeignKeyViolation(err):
		return notFound("%s 引用的记录", what)
	default:
		return err
	}
}
