package database

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"storefront_api/pkg/idgen"
)

// ==================== GORM 回调 ====================

// idDigits 模型可实现此接口指定随机 ID 位数
type idDigits interface {
	IDDigits() int
}

// RegisterIDGenerator 注册 ID 生成回调
// 创建前为 ID 为零值的记录分配随机定长 ID，不检查冲突也不重试，
// 冲突时由主键约束报错
func RegisterIDGenerator(db *gorm.DB) error {
	return db.Callback().Create().Before("gorm:create").Register("idgen:assign", assignID)
}

func assignID(tx *gorm.DB) {
	if tx.Statement.Schema == nil {
		return
	}

	field := tx.Statement.Schema.LookUpField("ID")
	if field == nil || !field.PrimaryKey {
		return
	}
	switch field.FieldType.Kind() {
	case reflect.Int64, reflect.Int, reflect.Int32:
	default:
		return
	}

	ctx := tx.Statement.Context
	switch tx.Statement.ReflectValue.Kind() {
	case reflect.Struct:
		// 单个对象
		setRandomID(ctx, tx, field, tx.Statement.ReflectValue)
	case reflect.Slice, reflect.Array:
		// 批量插入
		for i := 0; i < tx.Statement.ReflectValue.Len(); i++ {
			if !setRandomID(ctx, tx, field, reflect.Indirect(tx.Statement.ReflectValue.Index(i))) {
				return
			}
		}
	}
}

// setRandomID 失败时把错误记录到 tx，本次创建随之中止
func setRandomID(ctx context.Context, tx *gorm.DB, field *schema.Field, rv reflect.Value) bool {
	if _, isZero := field.ValueOf(ctx, rv); !isZero {
		return true
	}

	digits := digitsOf(rv)
	if limit := maxDigitsFor(field.FieldType.Kind()); digits > limit {
		_ = tx.AddError(fmt.Errorf("%s.%s 最多容纳 %d 位 ID，需要 %d 位", field.Schema.Name, field.Name, limit, digits))
		return false
	}
	if err := field.Set(ctx, rv, idgen.RandomWithN(digits)); err != nil {
		_ = tx.AddError(fmt.Errorf("分配 ID 失败: %w", err))
		return false
	}
	return true
}

func maxDigitsFor(kind reflect.Kind) int {
	if kind == reflect.Int32 || (kind == reflect.Int && strconv.IntSize == 32) {
		return 9
	}
	return idgen.MaxDigits
}

func digitsOf(rv reflect.Value) int {
	if rv.CanInterface() {
		if d, ok := rv.Interface().(idDigits); ok {
			return d.IDDigits()
		}
	}
	return idgen.DefaultDigits
}
