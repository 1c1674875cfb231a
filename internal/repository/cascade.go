package repository

import (
	"gorm.io/gorm"

	"storefront_api/internal/model"
)

// ==================== 级联删除 ====================
// 参数均为返回 id 列的子查询，需在同一事务内调用

// deleteVariants 删除变体：解除选项值关联，订单明细的 variant_id 置空
func deleteVariants(tx *gorm.DB, variantIDs *gorm.DB) error {
	if err := tx.Where("product_variant_id IN (?)", variantIDs).
		Delete(&model.VariantValue{}).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.OrderItem{}).
		Where("variant_id IN (?)", variantIDs).
		Update("variant_id", nil).Error; err != nil {
		return err
	}
	return tx.Where("id IN (?)", variantIDs).Delete(&model.ProductVariant{}).Error
}

// deleteValues 删除选项值及其变体关联
func deleteValues(tx *gorm.DB, valueIDs *gorm.DB) error {
	if err := tx.Where("option_value_id IN (?)", valueIDs).
		Delete(&model.VariantValue{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN (?)", valueIDs).Delete(&model.OptionValue{}).Error
}

// deleteOptions 删除选项，连带其全部选项值
func deleteOptions(tx *gorm.DB, optionIDs *gorm.DB) error {
	valueIDs := tx.Model(&model.OptionValue{}).Select("id").Where("option_id IN (?)", optionIDs)
	if err := deleteValues(tx, valueIDs); err != nil {
		return err
	}
	return tx.Where("id IN (?)", optionIDs).Delete(&model.ProductOption{}).Error
}

// deleteProducts 删除商品及其拥有的全部数据，包括引用它的订单明细
func deleteProducts(tx *gorm.DB, productIDs *gorm.DB) error {
	if err := tx.Where("product_id IN (?)", productIDs).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	if err := deleteVariants(tx, tx.Model(&model.ProductVariant{}).Select("id").Where("product_id IN (?)", productIDs)); err != nil {
		return err
	}
	if err := deleteOptions(tx, tx.Model(&model.ProductOption{}).Select("id").Where("product_id IN (?)", productIDs)); err != nil {
		return err
	}
	if err := tx.Where("product_id IN (?)", productIDs).Delete(&model.ProductImage{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN (?)", productIDs).Delete(&model.ProductCollection{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN (?)", productIDs).Delete(&model.Product{}).Error
}

// idsOf 包装显式 id 列表为子查询
func idsOf(tx *gorm.DB, m interface{}, ids []int64) *gorm.DB {
	return tx.Model(m).Select("id").Where("id IN ?", ids)
}
