package service

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
	"storefront_api/internal/testutil"
)

// ==================== 创建 ====================

func TestProductService_CreateNested(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	collection := &model.Collection{ShopID: f.shop.ID, Name: "Kitchen", Handle: "kitchen"}
	require.NoError(t, f.db.Create(collection).Error)

	in := mugInput()
	in.Price = testutil.Ptr(decimal.RequireFromString("12.50"))
	in.Collections = []int64{collection.ID, collection.ID}

	product, err := f.products.Create(ctx, f.shop.ID, in)
	require.NoError(t, err)

	assert.Len(t, strconv.FormatInt(product.ID, 10), 10)
	assert.Equal(t, "blue-mug", product.Handle)
	assert.Equal(t, model.ProductStatusPublished, product.Status)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.50")))
	assert.ElementsMatch(t, []string{"Size", "Color"}, optionNames(product.Options))
	assert.Equal(t, []int64{collection.ID}, product.CollectionIDs())

	require.Len(t, product.Variants, 1)
	assert.Equal(t, "MUG-LB", product.Variants[0].SKU)
	assert.ElementsMatch(t, []string{"Large", "Blue"}, valueNames(product.Variants[0].Values))
}

func TestProductService_CreateUnknownShop(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.products.Create(context.Background(), 999, mugInput())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_HandleUniquePerShop(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, f.shop.ID, mugInput())
	require.NoError(t, err)

	_, err = f.products.Create(ctx, f.shop.ID, mugInput())
	assert.ErrorIs(t, err, ErrConstraintViolation)

	// 其它店铺可以使用相同 handle
	_, other := testutil.SeedOwner(t, f.db, "other@example.com", "cups")
	product, err := f.products.Create(ctx, other.ID, mugInput())
	require.NoError(t, err)
	assert.Equal(t, "blue-mug", product.Handle)
}

func TestProductService_RejectsInvalidFields(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    dto.ProductReq
		field string
	}{
		{"纯数字handle", dto.ProductReq{Name: testutil.Ptr("Mug"), Handle: testutil.Ptr("42")}, "handle"},
		{"名称为空", dto.ProductReq{Name: testutil.Ptr("")}, "name"},
		{"负价格", dto.ProductReq{Name: testutil.Ptr("Mug"), Price: testutil.Ptr(decimal.NewFromInt(-1))}, "price"},
		{"handle无法生成", dto.ProductReq{Name: testutil.Ptr("!!!")}, "handle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Create(ctx, f.shop.ID, &ProductInput{ProductReq: tt.in})

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

// ==================== 查询 ====================

func TestProductService_GetByIDOrHandle(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	created, err := f.products.Create(ctx, f.shop.ID, mugInput())
	require.NoError(t, err)

	byID, err := f.products.Get(ctx, f.shop.ID, repository.ParseLookup(strconv.FormatInt(created.ID, 10)))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byID.ID)

	byHandle, err := f.products.Get(ctx, f.shop.ID, repository.ParseLookup("blue-mug"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, byHandle.ID)

	_, err = f.products.Get(ctx, f.shop.ID, repository.ParseLookup("42"))
	assert.ErrorIs(t, err, ErrNotFound)
}

// ==================== 更新 ====================

func TestProductService_FullReplaceIsIdempotent(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	in := mugInput()
	in.UploadedImages = []string{pngDataURL()}
	created, err := f.products.Create(ctx, f.shop.ID, in)
	require.NoError(t, err)
	require.Len(t, created.Images, 1)
	image := created.Images[0].Image

	update := mugInput()
	update.UploadedImages = []string{image}

	lookup := repository.Lookup{ID: created.ID}
	first, err := f.products.Update(ctx, f.shop.ID, lookup, update, false)
	require.NoError(t, err)
	second, err := f.products.Update(ctx, f.shop.ID, lookup, update, false)
	require.NoError(t, err)

	for _, p := range []*model.Product{first, second} {
		assert.ElementsMatch(t, []string{"Size", "Color"}, optionNames(p.Options))
		require.Len(t, p.Variants, 1)
		assert.ElementsMatch(t, []string{"Large", "Blue"}, valueNames(p.Variants[0].Values))
		require.Len(t, p.Images, 1)
		assert.Equal(t, image, p.Images[0].Image, "已有图片按文件名保留")
	}

	var options, values, variants int64
	f.db.Model(&model.ProductOption{}).Count(&options)
	f.db.Model(&model.OptionValue{}).Count(&values)
	f.db.Model(&model.ProductVariant{}).Count(&variants)
	assert.EqualValues(t, 2, options)
	assert.EqualValues(t, 3, values)
	assert.EqualValues(t, 1, variants)
}

func TestProductService_PutClearsMissingLists(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	created, err := f.products.Create(ctx, f.shop.ID, mugInput())
	require.NoError(t, err)

	put := &ProductInput{ProductReq: dto.ProductReq{Name: testutil.Ptr("Blue Mug")}}
	updated, err := f.products.Update(ctx, f.shop.ID, repository.Lookup{ID: created.ID}, put, false)
	require.NoError(t, err)

	assert.Empty(t, updated.Options)
	assert.Empty(t, updated.Variants)
}

func TestProductService_PatchKeepsMissingLists(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	created, err := f.products.Create(ctx, f.shop.ID, mugInput())
	require.NoError(t, err)

	patch := &ProductInput{ProductReq: dto.ProductReq{Description: testutil.Ptr("Holds 350ml")}}
	updated, err := f.products.Update(ctx, f.shop.ID, repository.Lookup{Handle: "blue-mug"}, patch, true)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Holds 350ml", updated.Description)
	assert.Equal(t, "Blue Mug", updated.Name)
	assert.Len(t, updated.Options, 2)
	assert.Len(t, updated.Variants, 1)
}

func TestProductService_UpdateRollsBackOnUnknownValue(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	created, err := f.products.Create(ctx, f.shop.ID, mugInput())
	require.NoError(t, err)

	bad := mugInput()
	bad.Name = testutil.Ptr("Renamed Mug")
	bad.Options = []dto.OptionReq{{Name: "Material", Values: []dto.OptionValueReq{{Name: "Clay"}}}}
	bad.Variants = []dto.VariantReq{{Name: "Purple", Values: []dto.VariantValueReq{{Name: "Purple"}}}}

	_, err = f.products.Update(ctx, f.shop.ID, repository.Lookup{ID: created.ID}, bad, false)
	require.ErrorIs(t, err, ErrNotFound)

	after, err := f.products.Get(ctx, f.shop.ID, repository.Lookup{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "Blue Mug", after.Name)
	assert.ElementsMatch(t, []string{"Size", "Color"}, optionNames(after.Options))
	assert.Len(t, after.Variants, 1)
}

func TestProductService_ThumbnailValues(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	in := mugInput()
	in.Thumbnail = testutil.Ptr(pngDataURL())
	created, err := f.products.Create(ctx, f.shop.ID, in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Thumbnail, "http://test.local/uploads/"), created.Thumbnail)

	lookup := repository.Lookup{ID: created.ID}

	// 普通地址直接写入
	patch := &ProductInput{ProductReq: dto.ProductReq{Thumbnail: testutil.Ptr("https://cdn.example.com/thumb.png")}}
	updated, err := f.products.Update(ctx, f.shop.ID, lookup, patch, true)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/thumb.png", updated.Thumbnail)

	// 空串清除缩略图
	patch = &ProductInput{ProductReq: dto.ProductReq{Thumbnail: testutil.Ptr("")}}
	updated, err = f.products.Update(ctx, f.shop.ID, lookup, patch, true)
	require.NoError(t, err)
	assert.Empty(t, updated.Thumbnail)

	// 未出现时保持原值
	patch = &ProductInput{ProductReq: dto.ProductReq{Thumbnail: testutil.Ptr("https://cdn.example.com/b.png")}}
	_, err = f.products.Update(ctx, f.shop.ID, lookup, patch, true)
	require.NoError(t, err)
	patch = &ProductInput{ProductReq: dto.ProductReq{Description: testutil.Ptr("x")}}
	updated, err = f.products.Update(ctx, f.shop.ID, lookup, patch, true)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/b.png", updated.Thumbnail)
}

// ==================== 变体选项值解析 ====================

func TestProductService_VariantValueResolution(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	// 另一个商品拥有 "Red"，不能被本商品引用
	other := &ProductInput{ProductReq: dto.ProductReq{
		Name:    testutil.Ptr("Red Mug"),
		Options: []dto.OptionReq{{Name: "Color", Values: []dto.OptionValueReq{{Name: "Red"}}}},
	}}
	_, err := f.products.Create(ctx, f.shop.ID, other)
	require.NoError(t, err)

	tests := []struct {
		name    string
		options []dto.OptionReq
		values  []string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "其它商品的选项值",
			options: []dto.OptionReq{{Name: "Color", Values: []dto.OptionValueReq{{Name: "Blue"}}}},
			values:  []string{"Red"},
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrNotFound) },
		},
		{
			name: "名称出现在多个选项",
			options: []dto.OptionReq{
				{Name: "Size", Values: []dto.OptionValueReq{{Name: "M"}}},
				{Name: "Fit", Values: []dto.OptionValueReq{{Name: "M"}}},
			},
			values: []string{"M"},
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
		{
			name:    "同一选项两个值",
			options: []dto.OptionReq{{Name: "Size", Values: []dto.OptionValueReq{{Name: "S"}, {Name: "L"}}}},
			values:  []string{"S", "L"},
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := make([]dto.VariantValueReq, 0, len(tt.values))
			for _, v := range tt.values {
				refs = append(refs, dto.VariantValueReq{Name: v})
			}
			in := &ProductInput{ProductReq: dto.ProductReq{
				Name:     testutil.Ptr("Mug " + strconv.Itoa(i)),
				Options:  tt.options,
				Variants: []dto.VariantReq{{Name: "v", Values: refs}},
			}}

			_, err := f.products.Create(ctx, f.shop.ID, in)
			tt.check(t, err)

			// 事务回滚，商品未写入
			_, getErr := f.products.Get(ctx, f.shop.ID, repository.Lookup{Handle: "mug-" + strconv.Itoa(i)})
			assert.ErrorIs(t, getErr, ErrNotFound)
		})
	}
}

// ==================== 删除 ====================

func TestProductService_DeleteCascades(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	in := mugInput()
	in.UploadedImages = []string{pngDataURL()}
	created, err := f.products.Create(ctx, f.shop.ID, in)
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, f.shop.ID, repository.Lookup{Handle: "blue-mug"}))

	_, err = f.products.Get(ctx, f.shop.ID, repository.Lookup{ID: created.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	for _, m := range []interface{}{&model.ProductOption{}, &model.OptionValue{}, &model.ProductVariant{}, &model.VariantValue{}, &model.ProductImage{}} {
		var count int64
		require.NoError(t, f.db.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T", m)
	}
}
