package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront_api/internal/api/dto"
	"storefront_api/internal/middleware"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
	"storefront_api/internal/testutil"
)

func newUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewUserService(repository.NewAccountUnitOfWork(db), zap.NewNop()), db
}

func ownerSignUp(email, subdomain string) *dto.ShopOwnerSignUpRequest {
	return &dto.ShopOwnerSignUpRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "Ada",
		ShopName:  "Ada's Mugs",
		Subdomain: subdomain,
	}
}

func TestUserService_SignUpShopOwnerAndLogin(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	resp, err := svc.SignUpShopOwner(ctx, ownerSignUp("Ada@Example.com", "ada"))
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.True(t, resp.User.IsShopOwner)
	assert.NotZero(t, resp.User.ShopID)

	claims, err := middleware.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, resp.User.ShopID, claims.ShopID)
	assert.False(t, claims.IsRefresh())

	var shop model.Shop
	require.NoError(t, db.First(&shop, resp.User.ShopID).Error)
	assert.Equal(t, "ada", *shop.Subdomain)
	assert.Equal(t, resp.User.ID, shop.OwnerID)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ShopID, login.User.ShopID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_SignUpConflicts(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	_, err := svc.SignUpShopOwner(ctx, ownerSignUp("ada@example.com", "ada"))
	require.NoError(t, err)

	_, err = svc.SignUpShopOwner(ctx, ownerSignUp("ada@example.com", "ada2"))
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	// 子域名冲突时用户也不应写入
	_, err = svc.SignUpShopOwner(ctx, ownerSignUp("bob@example.com", "ada"))
	assert.ErrorIs(t, err, ErrConstraintViolation)

	var count int64
	db.Model(&model.User{}).Where("email = ?", "bob@example.com").Count(&count)
	assert.Zero(t, count)
}

func TestUserService_SignUpCustomer(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	owner, err := svc.SignUpShopOwner(ctx, ownerSignUp("ada@example.com", "ada"))
	require.NoError(t, err)

	resp, err := svc.SignUpCustomer(ctx, &dto.CustomerSignUpRequest{
		Email:    "buyer@example.com",
		Password: "password123",
		Shop:     owner.User.ShopID,
	})
	require.NoError(t, err)
	assert.False(t, resp.User.IsShopOwner)
	assert.Zero(t, resp.User.ShopID)

	var joined int64
	db.Model(&model.ShopCustomer{}).Where("user_id = ?", resp.User.ID).Count(&joined)
	assert.EqualValues(t, 1, joined)

	_, err = svc.SignUpCustomer(ctx, &dto.CustomerSignUpRequest{
		Email:    "lost@example.com",
		Password: "password123",
		Shop:     42,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_RefreshToken(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	resp, err := svc.SignUpShopOwner(ctx, ownerSignUp("ada@example.com", "ada"))
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	claims, err := middleware.ParseToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ShopID, claims.ShopID)

	// Access Token 不能用于刷新
	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, db.Model(&model.User{}).Where("id = ?", resp.User.ID).Update("is_active", false).Error)
	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestUserService_Addresses(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()
	customer := testutil.SeedCustomer(t, db, "buyer@example.com")

	_, err := svc.CreateAddress(ctx, customer.ID, &dto.AddressRequest{
		StreetAddress: "1 Main St", City: "Springfield", Country: "US", ZipCode: "12345",
	})
	require.NoError(t, err)

	list, err := svc.ListAddresses(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Springfield", list[0].City)
}
