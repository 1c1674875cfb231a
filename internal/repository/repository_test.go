package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront_api/internal/model"
	"storefront_api/internal/testutil"
)

func TestParseLookup(t *testing.T) {
	tests := []struct {
		in   string
		want Lookup
	}{
		{"1234567890", Lookup{ID: 1234567890}},
		{"-3", Lookup{ID: -3}},
		{"blue-mug", Lookup{Handle: "blue-mug"}},
		{"12a", Lookup{Handle: "12a"}},
	}
	for _, tt := range tests {
		got := ParseLookup(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.in, got.String())
	}
}

// seedGraph 商品 + 选项/值 + 变体 + 图片 + 合集 + 订单明细
func seedGraph(t *testing.T, db *gorm.DB, shopID int64, customerID int64) (*model.Product, *model.Order) {
	t.Helper()

	product := &model.Product{ShopID: shopID, Name: "Mug", Handle: "mug", Price: decimal.NewFromInt(5)}
	require.NoError(t, db.Create(product).Error)

	option := &model.ProductOption{ProductID: product.ID, Name: "Size"}
	require.NoError(t, db.Create(option).Error)
	value := &model.OptionValue{OptionID: option.ID, Name: "L"}
	require.NoError(t, db.Create(value).Error)

	variant := &model.ProductVariant{ProductID: product.ID, Name: "L", Price: decimal.NewFromInt(7)}
	require.NoError(t, db.Create(variant).Error)
	require.NoError(t, db.Create(&model.VariantValue{ProductVariantID: variant.ID, OptionValueID: value.ID}).Error)

	require.NoError(t, db.Create(&model.ProductImage{ProductID: product.ID, Image: "http://x/a.png"}).Error)

	collection := &model.Collection{ShopID: shopID, Name: "All", Handle: "all"}
	require.NoError(t, db.Create(collection).Error)
	require.NoError(t, db.Create(&model.ProductCollection{ProductID: product.ID, CollectionID: collection.ID}).Error)

	order := &model.Order{
		CustomerID: customerID,
		ShopID:     shopID,
		TotalPrice: decimal.NewFromInt(14),
		Items: []model.OrderItem{
			{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2, Price: decimal.NewFromInt(7)},
		},
	}
	require.NoError(t, NewOrderRepository(db).Create(context.Background(), order))
	return product, order
}

func count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestProductRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.SeedOwner(t, db, "owner@example.com", "mugs")
	customer := testutil.SeedCustomer(t, db, "buyer@example.com")
	product, _ := seedGraph(t, db, shop.ID, customer.ID)

	require.NoError(t, NewProductRepository(db).Delete(context.Background(), product.ID))

	for _, m := range []interface{}{
		&model.Product{}, &model.ProductOption{}, &model.OptionValue{}, &model.ProductVariant{},
		&model.VariantValue{}, &model.ProductImage{}, &model.ProductCollection{}, &model.OrderItem{},
	} {
		assert.Zero(t, count(t, db, m), "%T", m)
	}
	// 合集和订单本身保留
	assert.EqualValues(t, 1, count(t, db, &model.Collection{}))
	assert.EqualValues(t, 1, count(t, db, &model.Order{}))
}

func TestVariantRepository_DeleteKeepsOrderItems(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.SeedOwner(t, db, "owner@example.com", "mugs")
	customer := testutil.SeedCustomer(t, db, "buyer@example.com")
	product, order := seedGraph(t, db, shop.ID, customer.ID)

	catalog := NewCatalogUnitOfWork(db)
	variants, err := catalog.Variants.List(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)

	require.NoError(t, catalog.Variants.Delete(context.Background(), variants[0].ID))

	var item model.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&item).Error)
	assert.Nil(t, item.VariantID)
	assert.Zero(t, count(t, db, &model.VariantValue{}))
	assert.EqualValues(t, 1, count(t, db, &model.OptionValue{}))
}

func TestShopRepository_GetByDomainPrefersCustomDomain(t *testing.T) {
	db := testutil.NewDB(t)
	_, bySub := testutil.SeedOwner(t, db, "owner@example.com", "mugs")
	_, byDomain := testutil.SeedOwner(t, db, "other@example.com", "cups")
	require.NoError(t, db.Model(byDomain).Update("domain", "mugs").Error)

	repo := NewShopRepository(db)
	ctx := context.Background()

	// 一个店铺的子域名与另一个店铺的自定义域名相同时，取自定义域名
	got, err := repo.GetByDomain(ctx, "mugs")
	require.NoError(t, err)
	assert.Equal(t, byDomain.ID, got.ID)

	got, err = repo.GetByDomain(ctx, "cups")
	require.NoError(t, err)
	assert.Equal(t, byDomain.ID, got.ID)

	require.NoError(t, db.Model(byDomain).Update("domain", nil).Error)
	got, err = repo.GetByDomain(ctx, "mugs")
	require.NoError(t, err)
	assert.Equal(t, bySub.ID, got.ID)

	_, err = repo.GetByDomain(ctx, "teapots")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestShopRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.SeedOwner(t, db, "owner@example.com", "mugs")
	_, other := testutil.SeedOwner(t, db, "other@example.com", "cups")
	customer := testutil.SeedCustomer(t, db, "buyer@example.com")
	seedGraph(t, db, shop.ID, customer.ID)
	require.NoError(t, NewUserRepository(db).JoinShop(context.Background(), customer.ID, shop.ID))

	otherProduct := &model.Product{ShopID: other.ID, Name: "Cup", Handle: "cup"}
	require.NoError(t, db.Create(otherProduct).Error)

	repo := NewShopRepository(db)
	require.NoError(t, repo.Delete(context.Background(), shop.ID))

	exists, err := repo.Exists(context.Background(), shop.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	for _, m := range []interface{}{&model.Order{}, &model.OrderItem{}, &model.Collection{}, &model.ShopCustomer{}} {
		assert.Zero(t, count(t, db, m), "%T", m)
	}
	assert.EqualValues(t, 1, count(t, db, &model.Product{}), "其它店铺的商品保留")
	assert.EqualValues(t, 3, count(t, db, &model.User{}), "用户保留")
}

func TestProductRepository_GetByLookup(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.SeedOwner(t, db, "owner@example.com", "mugs")
	customer := testutil.SeedCustomer(t, db, "buyer@example.com")
	product, _ := seedGraph(t, db, shop.ID, customer.ID)
	repo := NewProductRepository(db)
	ctx := context.Background()

	got, err := repo.GetByLookup(ctx, shop.ID, Lookup{Handle: "mug"})
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
	require.Len(t, got.Options, 1)
	assert.Len(t, got.Options[0].Values, 1)
	require.Len(t, got.Variants, 1)
	assert.Len(t, got.Variants[0].Values, 1)
	assert.Len(t, got.Images, 1)
	assert.Len(t, got.Collections, 1)

	_, err = repo.GetByLookup(ctx, shop.ID+1, Lookup{ID: product.ID})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestProductRepository_ReplaceCollectionsDedupes(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.SeedOwner(t, db, "owner@example.com", "mugs")
	product := &model.Product{ShopID: shop.ID, Name: "Mug", Handle: "mug"}
	require.NoError(t, db.Create(product).Error)
	a := &model.Collection{ShopID: shop.ID, Name: "A", Handle: "a"}
	b := &model.Collection{ShopID: shop.ID, Name: "B", Handle: "b"}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)

	repo := NewProductRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceCollections(ctx, product.ID, []int64{a.ID, a.ID, b.ID}))
	assert.EqualValues(t, 2, count(t, db, &model.ProductCollection{}))

	require.NoError(t, repo.ReplaceCollections(ctx, product.ID, nil))
	assert.Zero(t, count(t, db, &model.ProductCollection{}))
}

func TestOrderRepository_Stats(t *testing.T) {
	db := testutil.NewDB(t)
	_, shop := testutil.SeedOwner(t, db, "owner@example.com", "mugs")
	customer := testutil.SeedCustomer(t, db, "buyer@example.com")
	product, order := seedGraph(t, db, shop.ID, customer.ID)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	second := &model.Order{
		CustomerID: customer.ID,
		ShopID:     shop.ID,
		TotalPrice: decimal.RequireFromString("5.50"),
		Fulfilled:  true,
		Items:      []model.OrderItem{{ProductID: product.ID, Quantity: 1, Price: decimal.RequireFromString("5.50")}},
	}
	require.NoError(t, repo.Create(ctx, second))

	sum, err := repo.SumTotalPrice(ctx, OrderFilter{ShopID: shop.ID})
	require.NoError(t, err)
	assert.Equal(t, "19.50", sum.StringFixed(2))

	empty, err := repo.SumTotalPrice(ctx, OrderFilter{ShopID: shop.ID + 1})
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	open := false
	n, err := repo.Count(ctx, OrderFilter{ShopID: shop.ID, Fulfilled: &open})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	top, err := repo.TopProducts(ctx, shop.ID, time.Now().Add(-time.Hour), 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, ProductSales{ProductID: product.ID, Name: "Mug", Quantity: 3}, top[0])

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Variant)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "14.00", got.Items[0].CurrentUnitPrice().Mul(decimal.NewFromInt(2)).StringFixed(2))
}
