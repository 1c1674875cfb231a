// Package testutil 测试辅助：内存 SQLite 数据库与常用种子数据
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storefront_api/internal/model"
	"storefront_api/pkg/database"
)

var dbSeq atomic.Int64

// NewDB 创建独立的内存数据库，注册 ID 生成回调并建表
// 单连接保证同一测试内所有查询看到同一份数据
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "连接测试数据库失败")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RegisterIDGenerator(db))
	require.NoError(t, model.Migrate(db), "数据库迁移失败")
	return db
}

// ==================== 种子数据 ====================

// SeedOwner 创建店主及其店铺
func SeedOwner(t *testing.T, db *gorm.DB, email, subdomain string) (*model.User, *model.Shop) {
	t.Helper()

	user := &model.User{Email: email, Password: "x", IsShopOwner: true, IsActive: true}
	require.NoError(t, db.Create(user).Error)

	shop := &model.Shop{OwnerID: user.ID, Name: subdomain, Subdomain: &subdomain}
	require.NoError(t, db.Create(shop).Error)
	return user, shop
}

// SeedCustomer 创建顾客
func SeedCustomer(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, Password: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Ptr 取字面量地址
func Ptr[T any](v T) *T {
	return &v
}
