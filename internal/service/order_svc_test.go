package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
	"storefront_api/internal/testutil"
)

type orderFixture struct {
	*catalogFixture
	orders   *OrderService
	customer *model.User
	product  *model.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := newCatalogFixture(t)

	in := mugInput()
	in.Price = testutil.Ptr(decimal.NewFromInt(10))
	in.Variants[0].Price = decimal.NewFromInt(10)
	product, err := f.products.Create(context.Background(), f.shop.ID, in)
	require.NoError(t, err)

	return &orderFixture{
		catalogFixture: f,
		orders: NewOrderService(
			repository.NewOrderRepository(f.db),
			repository.NewUserRepository(f.db),
			f.shopRepo,
			f.catalog.Products,
			f.catalog.Variants,
			zap.NewNop(),
		),
		customer: testutil.SeedCustomer(t, f.db, "buyer@example.com"),
		product:  product,
	}
}

func price(s string) *decimal.Decimal {
	return testutil.Ptr(decimal.RequireFromString(s))
}

func TestOrderService_TotalPrice(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	variantID := f.product.Variants[0].ID

	order, err := f.orders.PlaceOrder(ctx, f.customer.ID, &dto.PlaceOrderReq{
		Shop: f.shop.ID,
		Items: []dto.OrderItemReq{
			{Product: f.product.ID, Variant: &variantID, Quantity: 2, Price: price("10.00")},
			{Product: f.product.ID, Price: price("5.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "25.00", order.TotalPrice.StringFixed(2))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)

	// 商品改价后 total_price 不变，get_total_cost 实时变化
	require.NoError(t, f.db.Model(&model.ProductVariant{}).Where("id = ?", variantID).
		Update("price", decimal.NewFromInt(12)).Error)
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", f.product.ID).
		Update("price", decimal.NewFromInt(6)).Error)

	reloaded, err := f.orders.Get(ctx, order.ID, f.customer.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "25.00", reloaded.TotalPrice.StringFixed(2))
	assert.Equal(t, "30.00", reloaded.GetTotalCost().StringFixed(2))

	// 下单顾客自动加入店铺
	var joined int64
	f.db.Model(&model.ShopCustomer{}).Where("user_id = ? AND shop_id = ?", f.customer.ID, f.shop.ID).Count(&joined)
	assert.EqualValues(t, 1, joined)
}

func TestOrderService_ShippingSnapshot(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	address := &model.CustomerAddress{
		CustomerID: f.customer.ID, StreetAddress: "1 Main St", City: "Springfield", Country: "US", ZipCode: "12345",
	}
	require.NoError(t, f.db.Create(address).Error)

	order, err := f.orders.PlaceOrder(ctx, f.customer.ID, &dto.PlaceOrderReq{
		Shop:            f.shop.ID,
		ShippingAddress: &address.ID,
		Items:           []dto.OrderItemReq{{Product: f.product.ID, Price: price("10")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Springfield", order.ShippingSnapshot["city"])

	// 别人的地址不可用
	stranger := testutil.SeedCustomer(t, f.db, "stranger@example.com")
	_, err = f.orders.PlaceOrder(ctx, stranger.ID, &dto.PlaceOrderReq{
		Shop:            f.shop.ID,
		ShippingAddress: &address.ID,
		Items:           []dto.OrderItemReq{{Product: f.product.ID, Price: price("10")}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_RejectsInvalidItems(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, otherShop := testutil.SeedOwner(t, f.db, "other@example.com", "other")
	foreign, err := f.products.Create(ctx, otherShop.ID, &ProductInput{ProductReq: dto.ProductReq{Name: testutil.Ptr("Foreign")}})
	require.NoError(t, err)
	plain, err := f.products.Create(ctx, f.shop.ID, &ProductInput{ProductReq: dto.ProductReq{Name: testutil.Ptr("Plain Mug")}})
	require.NoError(t, err)

	tests := []struct {
		name string
		item dto.OrderItemReq
	}{
		{"其它店铺商品", dto.OrderItemReq{Product: foreign.ID, Price: price("1")}},
		{"负价格", dto.OrderItemReq{Product: f.product.ID, Price: price("-1")}},
		{"缺少价格", dto.OrderItemReq{Product: f.product.ID}},
		{"变体不属于商品", dto.OrderItemReq{Product: plain.ID, Variant: &f.product.Variants[0].ID, Price: price("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.PlaceOrder(ctx, f.customer.ID, &dto.PlaceOrderReq{
				Shop:  f.shop.ID,
				Items: []dto.OrderItemReq{tt.item},
			})
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	var count int64
	f.db.Model(&model.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderService_GetVisibility(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.orders.PlaceOrder(ctx, f.customer.ID, &dto.PlaceOrderReq{
		Shop:  f.shop.ID,
		Items: []dto.OrderItemReq{{Product: f.product.ID, Price: price("10")}},
	})
	require.NoError(t, err)

	_, err = f.orders.Get(ctx, order.ID, f.customer.ID, 0)
	assert.NoError(t, err)
	_, err = f.orders.Get(ctx, order.ID, f.shop.OwnerID, f.shop.ID)
	assert.NoError(t, err)

	stranger := testutil.SeedCustomer(t, f.db, "stranger@example.com")
	_, err = f.orders.Get(ctx, order.ID, stranger.ID, 0)
	assert.ErrorIs(t, err, ErrForbidden)

	orders, total, err := f.orders.ListByCustomer(ctx, f.customer.ID, &dto.PageReq{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, orders, 1)
}
