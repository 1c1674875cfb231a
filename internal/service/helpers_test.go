package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
	"storefront_api/internal/testutil"
	"storefront_api/pkg/config"
)

// ==================== 测试辅助 ====================

type catalogFixture struct {
	db       *gorm.DB
	catalog  *repository.CatalogUnitOfWork
	shopRepo repository.ShopRepository
	storage  *StorageService
	shop     *model.Shop
	products *ProductService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	db := testutil.NewDB(t)
	_, shop := testutil.SeedOwner(t, db, "owner@example.com", "mugs")

	catalog := repository.NewCatalogUnitOfWork(db)
	shopRepo := repository.NewShopRepository(db)
	storage := newTestStorage(t)

	return &catalogFixture{
		db:       db,
		catalog:  catalog,
		shopRepo: shopRepo,
		storage:  storage,
		shop:     shop,
		products: NewProductService(catalog, shopRepo, storage, nil, zap.NewNop()),
	}
}

func newTestStorage(t *testing.T) *StorageService {
	t.Helper()
	local, err := NewLocalStorage(config.StorageConfig{
		BasePath:  t.TempDir(),
		PublicURL: "http://test.local/uploads",
	})
	require.NoError(t, err)
	return NewStorageService(local)
}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nfake"))
}

func mugInput() *ProductInput {
	return &ProductInput{ProductReq: dto.ProductReq{
		Name: testutil.Ptr("Blue Mug"),
		Options: []dto.OptionReq{
			{Name: "Size", Values: []dto.OptionValueReq{{Name: "Small"}, {Name: "Large"}}},
			{Name: "Color", Values: []dto.OptionValueReq{{Name: "Blue"}}},
		},
		Variants: []dto.VariantReq{
			{Name: "Large Blue", SKU: "MUG-LB", Values: []dto.VariantValueReq{{Name: "Large"}, {Name: "Blue"}}},
		},
	}}
}

func optionNames(options []model.ProductOption) []string {
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Name)
	}
	return names
}

func valueNames(values []model.OptionValue) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, v.Name)
	}
	return names
}
