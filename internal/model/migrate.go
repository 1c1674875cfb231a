package model

import (
	"gorm.io/gorm"
)

// AllModels 需要建表的模型，按依赖顺序排列
func AllModels() []interface{} {
	return []interface{}{
		// Account
		&User{}, &CustomerAddress{},
		// Shop
		&Shop{}, &ShopCustomer{},
		// Catalog
		&Collection{}, &Product{}, &ProductCollection{}, &ProductImage{},
		&ProductOption{}, &OptionValue{}, &ProductVariant{}, &VariantValue{},
		// Order
		&Order{}, &OrderItem{},
	}
}

// SetupJoinTables 注册自定义多对多关联表，需在 AutoMigrate 之前调用
func SetupJoinTables(db *gorm.DB) error {
	joins := []struct {
		model interface{}
		field string
		join  interface{}
	}{
		{&Product{}, "Collections", &ProductCollection{}},
		{&Collection{}, "Products", &ProductCollection{}},
		{&ProductVariant{}, "Values", &VariantValue{}},
		{&User{}, "Shops", &ShopCustomer{}},
	}
	for _, j := range joins {
		if err := db.SetupJoinTable(j.model, j.field, j.join); err != nil {
			return err
		}
	}
	return nil
}

// Migrate 建表/迁移
func Migrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(AllModels()...)
}
