package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
	"storefront_api/internal/testutil"
	"storefront_api/pkg/cache"
)

type shopFixture struct {
	*catalogFixture
	cache      *cache.MemoryCache
	storefront *StorefrontService
	shops      *ShopService
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()
	f := newCatalogFixture(t)

	mem := cache.NewMemoryCache()
	storefront := NewStorefrontService(f.shopRepo, f.catalog.Products, f.catalog.Collections, mem, time.Minute, zap.NewNop())
	f.products = NewProductService(f.catalog, f.shopRepo, f.storage, storefront, zap.NewNop())

	return &shopFixture{
		catalogFixture: f,
		cache:          mem,
		storefront:     storefront,
		shops:          NewShopService(f.shopRepo, repository.NewUserRepository(f.db), storefront, zap.NewNop()),
	}
}

// ==================== 前台 ====================

func TestStorefrontService_PublishedProductsAndCache(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, f.shop.ID, mugInput())
	require.NoError(t, err)
	_, err = f.products.Create(ctx, f.shop.ID, &ProductInput{ProductReq: dto.ProductReq{
		Name:   testutil.Ptr("Secret Mug"),
		Status: testutil.Ptr(model.ProductStatusDraft),
	}})
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&model.Collection{ShopID: f.shop.ID, Name: "On", Handle: "on", IsActive: true}).Error)
	require.NoError(t, f.db.Create(&model.Collection{ShopID: f.shop.ID, Name: "Off", Handle: "off"}).Error)

	resp, err := f.storefront.Get(ctx, "mugs")
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Blue Mug", resp.Products[0].Name)
	require.Len(t, resp.Collections, 1)
	assert.Equal(t, "On", resp.Collections[0].Name)

	_, err = f.cache.Get(ctx, "storefront:mugs")
	assert.NoError(t, err, "结果应写入缓存")

	// 商品变更后缓存失效
	_, err = f.products.Create(ctx, f.shop.ID, &ProductInput{ProductReq: dto.ProductReq{Name: testutil.Ptr("Red Mug")}})
	require.NoError(t, err)
	_, err = f.cache.Get(ctx, "storefront:mugs")
	assert.ErrorIs(t, err, cache.ErrMiss)

	resp, err = f.storefront.Get(ctx, "mugs")
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)

	_, err = f.storefront.Get(ctx, "nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==================== 店铺 ====================

func TestShopService_UpdateDomains(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	_, err := f.storefront.Get(ctx, "mugs")
	require.NoError(t, err)

	updated, err := f.shops.Update(ctx, f.shop.ID, &dto.ShopUpdateReq{
		Domain:    testutil.Ptr("mugs.example.com"),
		Subdomain: testutil.Ptr("blue-mugs"),
		City:      testutil.Ptr("Portland"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Portland", updated.City)
	require.NotNil(t, updated.Domain)
	assert.Equal(t, "mugs.example.com", *updated.Domain)

	_, err = f.cache.Get(ctx, "storefront:mugs")
	assert.ErrorIs(t, err, cache.ErrMiss, "旧子域名缓存应清除")

	_, err = f.storefront.Get(ctx, "mugs.example.com")
	assert.NoError(t, err)
	_, err = f.storefront.Get(ctx, "mugs")
	assert.ErrorIs(t, err, ErrNotFound)

	// 空字符串清除自定义域名
	cleared, err := f.shops.Update(ctx, f.shop.ID, &dto.ShopUpdateReq{Domain: testutil.Ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Domain)

	// 子域名被占用
	_, other := testutil.SeedOwner(t, f.db, "other@example.com", "taken")
	_, err = f.shops.Update(ctx, other.ID, &dto.ShopUpdateReq{Subdomain: testutil.Ptr("blue-mugs")})
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestShopService_DeleteCascades(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, f.shop.ID, mugInput())
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&model.Collection{ShopID: f.shop.ID, Name: "All", Handle: "all"}).Error)

	require.NoError(t, f.shops.Delete(ctx, f.shop.ID))

	for _, m := range []interface{}{&model.Shop{}, &model.Product{}, &model.Collection{}, &model.ProductOption{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}

	_, err = f.shops.Get(ctx, f.shop.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==================== 后台概览 ====================

func TestDashboardService_Get(t *testing.T) {
	of := newOrderFixture(t)
	ctx := context.Background()
	userRepo := repository.NewUserRepository(of.db)

	for _, p := range []string{"10.00", "2.50"} {
		_, err := of.orders.PlaceOrder(ctx, of.customer.ID, &dto.PlaceOrderReq{
			Shop:  of.shop.ID,
			Items: []dto.OrderItemReq{{Product: of.product.ID, Quantity: 2, Price: price(p)}},
		})
		require.NoError(t, err)
	}

	svc := NewDashboardService(userRepo, of.shopRepo, of.catalog.Products, repository.NewOrderRepository(of.db))
	resp, err := svc.Get(ctx, of.shop.OwnerID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, resp.Products)
	assert.EqualValues(t, 2, resp.Orders)
	assert.EqualValues(t, 2, resp.NewOrders, "未登录过时全部为新订单")
	assert.EqualValues(t, 2, resp.OpenOrders)
	assert.EqualValues(t, 1, resp.NumCustomers)
	assert.Equal(t, "25.00", resp.AllSales.StringFixed(2))
	require.Len(t, resp.TopProducts, 1)
	assert.EqualValues(t, 4, resp.TopProducts[0].Quantity)

	// 上一次登录之后没有新订单
	future := time.Now().Add(time.Hour)
	require.NoError(t, of.db.Model(&model.User{}).Where("id = ?", of.shop.OwnerID).Update("previous_login_at", future).Error)
	resp, err = svc.Get(ctx, of.shop.OwnerID)
	require.NoError(t, err)
	assert.Zero(t, resp.NewOrders)

	_, err = svc.Get(ctx, of.customer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
