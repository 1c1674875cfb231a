package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_api/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var owner = TokenSubject{UserID: 1000000001, Email: "owner@example.com", IsShopOwner: true, ShopID: 2000000002}

func TestTokenPair(t *testing.T) {
	access, refresh, err := GenerateTokenPair(owner)
	require.NoError(t, err)

	claims, err := ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, owner, claims.TokenSubject())
	assert.False(t, claims.IsRefresh())
	assert.Equal(t, "storefront-api", claims.Issuer)

	claims, err = ParseToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.IsRefresh())
}

func TestParseToken_WrongSecret(t *testing.T) {
	access, err := GenerateAccessToken(owner)
	require.NoError(t, err)

	prev := GetJWTConfig()
	SetJWTConfig(NewJWTConfig(config.JWTConfig{SecretKey: "another-secret"}))
	defer SetJWTConfig(prev)

	_, err = ParseToken(access)
	assert.Error(t, err)
}

func TestNewJWTConfig_Defaults(t *testing.T) {
	cfg := NewJWTConfig(config.JWTConfig{AccessTokenTTL: time.Minute})
	assert.Equal(t, time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, DefaultJWTConfig().RefreshTokenTTL, cfg.RefreshTokenTTL)
	assert.Equal(t, DefaultJWTConfig().SecretKey, cfg.SecretKey)
}

// ==================== 中间件 ====================

func newAuthRouter() *gin.Engine {
	r := gin.New()
	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "shop_id": GetShopID(c)})
	}
	r.GET("/shop/:shop_id", JWTAuth(), RequireShopOwner("shop_id"), ok)
	r.GET("/users/:user_id", JWTAuth(), RequireSelf("user_id"), ok)
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newAuthRouter()
	access, refresh, err := GenerateTokenPair(owner)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/users/1000000001", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/users/1000000001", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/users/1000000001", refresh).Code, "Refresh Token 不能访问接口")

	req := httptest.NewRequest(http.MethodGet, "/users/1000000001", nil)
	req.Header.Set("Authorization", "Token "+access)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "/users/1000000001", access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1000000001,"shop_id":2000000002}`, w.Body.String())
}

func TestRequireShopOwner(t *testing.T) {
	r := newAuthRouter()
	access, err := GenerateAccessToken(owner)
	require.NoError(t, err)
	customer, err := GenerateAccessToken(TokenSubject{UserID: 1000000003})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "/shop/2000000002", access).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/shop/2000000009", access).Code)
	assert.Equal(t, http.StatusBadRequest, doGet(r, "/shop/mugs", access).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/shop/2000000002", customer).Code)
}

func TestRequireSelf(t *testing.T) {
	r := newAuthRouter()
	customer, err := GenerateAccessToken(TokenSubject{UserID: 1000000003})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doGet(r, "/users/1000000003", customer).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/users/1000000001", customer).Code)
}
