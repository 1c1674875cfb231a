package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"storefront_api/pkg/config"
)

// ==================== JWT 配置 ====================

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey       string        // 签名密钥
	AccessTokenTTL  time.Duration // Access Token 有效期
	RefreshTokenTTL time.Duration // Refresh Token 有效期
	Issuer          string        // 签发者
}

// DefaultJWTConfig 默认配置
func DefaultJWTConfig() *JWTConfig {
	return &JWTConfig{
		SecretKey:       "storefront-secret-key-change-in-production",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "storefront-api",
	}
}

// NewJWTConfig 由应用配置生成，未配置的项使用默认值
func NewJWTConfig(cfg config.JWTConfig) *JWTConfig {
	out := DefaultJWTConfig()
	if cfg.SecretKey != "" {
		out.SecretKey = cfg.SecretKey
	}
	if cfg.AccessTokenTTL > 0 {
		out.AccessTokenTTL = cfg.AccessTokenTTL
	}
	if cfg.RefreshTokenTTL > 0 {
		out.RefreshTokenTTL = cfg.RefreshTokenTTL
	}
	if cfg.Issuer != "" {
		out.Issuer = cfg.Issuer
	}
	return out
}

// 全局配置
var jwtConfig = DefaultJWTConfig()

// SetJWTConfig 设置 JWT 配置
func SetJWTConfig(cfg *JWTConfig) {
	jwtConfig = cfg
}

// GetJWTConfig 获取 JWT 配置
func GetJWTConfig() *JWTConfig {
	return jwtConfig
}

// ==================== Claims 定义 ====================

const (
	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

// UserClaims 用户声明，店主携带其店铺 ID
type UserClaims struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	IsShopOwner bool   `json:"is_shop_owner"`
	ShopID      int64  `json:"shop_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenSubject Token 所有者信息
type TokenSubject struct {
	UserID      int64
	Email       string
	IsShopOwner bool
	ShopID      int64
}

// IsRefresh 是否为 Refresh Token
func (c *UserClaims) IsRefresh() bool {
	return c.Subject == subjectRefresh
}

// TokenSubject 提取 Token 所有者信息
func (c *UserClaims) TokenSubject() TokenSubject {
	return TokenSubject{UserID: c.UserID, Email: c.Email, IsShopOwner: c.IsShopOwner, ShopID: c.ShopID}
}

// ==================== Token 生成 ====================

func generateToken(sub TokenSubject, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		UserID:      sub.UserID,
		Email:       sub.Email,
		IsShopOwner: sub.IsShopOwner,
		ShopID:      sub.ShopID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SecretKey))
}

// GenerateAccessToken 生成 Access Token
func GenerateAccessToken(sub TokenSubject) (string, error) {
	return generateToken(sub, subjectAccess, jwtConfig.AccessTokenTTL)
}

// GenerateRefreshToken 生成 Refresh Token
func GenerateRefreshToken(sub TokenSubject) (string, error) {
	return generateToken(sub, subjectRefresh, jwtConfig.RefreshTokenTTL)
}

// GenerateTokenPair 生成 Token 对
func GenerateTokenPair(sub TokenSubject) (accessToken, refreshToken string, err error) {
	accessToken, err = GenerateAccessToken(sub)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = GenerateRefreshToken(sub)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ==================== Token 解析 ====================

// ParseToken 解析 Token
func ParseToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(jwtConfig.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyShopID = "shop_id"
	ContextKeyClaims = "claims"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

// bearerClaims 从 Authorization 头解析 Access Token
func bearerClaims(c *gin.Context) (*UserClaims, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "未提供认证信息"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "认证格式错误，应为 Bearer {token}"
	}

	claims, err := ParseToken(parts[1])
	if err != nil {
		return nil, "Token 无效或已过期"
	}
	if claims.Subject != subjectAccess {
		return nil, "Token 类型错误"
	}
	return claims, ""
}

// JWTAuth JWT 认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, msg := bearerClaims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyShopID, claims.ShopID)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

// RequireShopOwner 要求当前用户是路径参数 param 所指店铺的店主，需在 JWTAuth 之后使用
func RequireShopOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetUserClaims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "未登录")
			return
		}

		shopID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			abort(c, http.StatusBadRequest, "无效的店铺 ID")
			return
		}
		if !claims.IsShopOwner || claims.ShopID != shopID {
			abort(c, http.StatusForbidden, "无权限访问")
			return
		}
		c.Next()
	}
}

// RequireSelf 要求路径参数 param 为当前用户 ID，需在 JWTAuth 之后使用
func RequireSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil {
			abort(c, http.StatusBadRequest, "无效的用户 ID")
			return
		}
		if userID != GetUserID(c) {
			abort(c, http.StatusForbidden, "无权限访问")
			return
		}
		c.Next()
	}
}

// ==================== 辅助函数 ====================

// GetUserID 从 Context 获取用户 ID
func GetUserID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyUserID); exists {
		return id.(int64)
	}
	return 0
}

// GetShopID 从 Context 获取店主的店铺 ID，顾客为 0
func GetShopID(c *gin.Context) int64 {
	if id, exists := c.Get(ContextKeyShopID); exists {
		return id.(int64)
	}
	return 0
}

// GetUserClaims 从 Context 获取完整 Claims
func GetUserClaims(c *gin.Context) *UserClaims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		return claims.(*UserClaims)
	}
	return nil
}
