package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
)

// ==================== 商品子对象写入 ====================
// 以下函数只在 CatalogUnitOfWork 事务内调用

// createOptions 创建选项及其值
func createOptions(ctx context.Context, uow *repository.CatalogUnitOfWork, productID int64, options []dto.OptionReq) error {
	for _, o := range options {
		option := &model.ProductOption{
			ProductID: productID,
			Name:      o.Name,
			Values:    make([]model.OptionValue, 0, len(o.Values)),
		}
		for _, v := range o.Values {
			option.Values = append(option.Values, model.OptionValue{Name: v.Name})
		}
		if err := uow.Options.Create(ctx, option); err != nil {
			return wrapDBError(err, "选项 "+o.Name)
		}
	}
	return nil
}

// createVariants 创建变体，并按名称在本商品的选项值中解析关联
func createVariants(ctx context.Context, uow *repository.CatalogUnitOfWork, productID int64, variants []dto.VariantReq) error {
	for i, v := range variants {
		field := fmt.Sprintf("variants[%d]", i)
		if err := validateVariant(field, v.Price, v.Inventory); err != nil {
			return err
		}

		valueIDs, err := resolveVariantValues(ctx, uow.Options, productID, v.Values, field)
		if err != nil {
			return err
		}

		variant := &model.ProductVariant{
			ProductID: productID,
			Name:      v.Name,
			SKU:       v.SKU,
			Price:     v.Price,
			Inventory: v.Inventory,
		}
		if err := uow.Variants.Create(ctx, variant); err != nil {
			return wrapDBError(err, "变体 "+v.Name)
		}
		if err := uow.Variants.AttachValues(ctx, variant.ID, valueIDs); err != nil {
			return wrapDBError(err, "变体选项值")
		}
	}
	return nil
}

// resolveVariantValues 按名称解析选项值，范围限定在本商品
// 名称不存在返回 ErrNotFound；名称对应多个值或同一选项出现两个值返回 ValidationError
func resolveVariantValues(ctx context.Context, options repository.OptionRepository, productID int64, refs []dto.VariantValueReq, field string) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	byOption := make(map[int64]string, len(refs))

	for _, ref := range refs {
		values, err := options.FindValuesByName(ctx, productID, ref.Name)
		if err != nil {
			return nil, err
		}
		switch len(values) {
		case 0:
			return nil, notFound("选项值 %q", ref.Name)
		case 1:
		default:
			return nil, NewValidationError(field+".values", fmt.Sprintf("选项值 %q 在多个选项中出现，无法确定", ref.Name))
		}

		value := values[0]
		if prev, ok := byOption[value.OptionID]; ok {
			return nil, NewValidationError(field+".values", fmt.Sprintf("选项值 %q 与 %q 属于同一选项", ref.Name, prev))
		}
		byOption[value.OptionID] = ref.Name
		ids = append(ids, value.ID)
	}
	return ids, nil
}

// replaceProductCollections 替换商品的合集关联，合集必须属于同一店铺
func replaceProductCollections(ctx context.Context, uow *repository.CatalogUnitOfWork, shopID, productID int64, collectionIDs []int64) error {
	ids := uniqueIDs(collectionIDs)
	if len(ids) > 0 {
		count, err := uow.Collections.CountInShop(ctx, shopID, ids)
		if err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return notFound("合集 %v", ids)
		}
	}
	if err := uow.Products.ReplaceCollections(ctx, productID, ids); err != nil {
		return wrapDBError(err, "商品合集关联")
	}
	return nil
}

func validateVariant(field string, price decimal.Decimal, inventory int) error {
	verr := &ValidationError{}
	if price.IsNegative() {
		verr.Add(field+".price", "不能为负数")
	}
	if inventory < 0 {
		verr.Add(field+".inventory", "不能为负数")
	}
	return verr.OrNil()
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// productInShop 商品必须属于当前店铺
func productInShop(ctx context.Context, products repository.ProductRepository, shopID, productID int64) (*model.Product, error) {
	product, err := products.FindByID(ctx, productID)
	if err != nil {
		return nil, wrapDBError(err, fmt.Sprintf("商品 %d", productID))
	}
	if product.ShopID != shopID {
		return nil, fmt.Errorf("%w: 商品 %d 不属于当前店铺", ErrForbidden, productID)
	}
	return product, nil
}
