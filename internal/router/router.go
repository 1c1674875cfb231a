package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"storefront_api/internal/controller"
	"storefront_api/internal/middleware"

	_ "storefront_api/docs"
)

// Controllers 控制器集合
type Controllers struct {
	User       *controller.UserController
	Shop       *controller.ShopController
	Product    *controller.ProductController
	Collection *controller.CollectionController
	Option     *controller.OptionController
	Variant    *controller.VariantController
	Order      *controller.OrderController
}

// Options 路由选项
type Options struct {
	Logger *zap.Logger
	// UploadDir 非空时以 /uploads 暴露本地存储目录
	UploadDir string
	// AuthCooldown 登录/注册接口的同 IP 最小间隔，0 表示不限流
	AuthCooldown       time.Duration
	MaxMultipartMemory int64
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctl *Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(opts.Logger), middleware.Recovery(opts.Logger))
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}

	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.AuthCooldown > 0 {
		throttle = middleware.Throttle(middleware.NewCooldownLimiter(opts.AuthCooldown))
	}

	auth := middleware.JWTAuth()

	// 2. API 路由组
	api := r.Group("/api")
	{
		// 认证与注册
		api.POST("/user/login", throttle, ctl.User.Login)
		api.POST("/token/refresh", ctl.User.RefreshToken)
		api.POST("/sign-up/shop-owner", throttle, ctl.User.SignUpShopOwner)
		api.POST("/sign-up/customer", throttle, ctl.User.SignUpCustomer)

		// 顾客收货地址
		addresses := api.Group("/customer/addresses", auth)
		{
			addresses.GET("", ctl.User.ListAddresses)
			addresses.POST("", ctl.User.CreateAddress)
		}

		// 店铺及其商品、合集
		shop := api.Group("/shop/:shop_id")
		{
			owner := []gin.HandlerFunc{auth, middleware.RequireShopOwner("shop_id")}

			shop.GET("", ctl.Shop.Get)
			shop.PUT("", append(owner, ctl.Shop.Update)...)
			shop.PATCH("", append(owner, ctl.Shop.Update)...)
			shop.DELETE("", append(owner, ctl.Shop.Delete)...)

			// /:lookup 为纯数字时按 ID 查询，否则按 handle
			products := shop.Group("/products")
			{
				products.GET("", ctl.Product.List)
				products.GET("/:lookup", ctl.Product.Get)
				products.POST("", append(owner, ctl.Product.Create)...)
				products.PUT("/:lookup", append(owner, ctl.Product.Update)...)
				products.PATCH("/:lookup", append(owner, ctl.Product.Update)...)
				products.DELETE("/:lookup", append(owner, ctl.Product.Delete)...)
			}

			collections := shop.Group("/collections")
			{
				collections.GET("", ctl.Collection.List)
				collections.GET("/:lookup", ctl.Collection.Get)
				collections.POST("", append(owner, ctl.Collection.Create)...)
				collections.PUT("/:lookup", append(owner, ctl.Collection.Update)...)
				collections.PATCH("/:lookup", append(owner, ctl.Collection.Update)...)
				collections.DELETE("/:lookup", append(owner, ctl.Collection.Delete)...)
			}
		}

		// 选项与变体的独立接口，店铺归属在 service 层校验
		options := api.Group("/options", auth)
		{
			options.GET("", ctl.Option.List)
			options.POST("", ctl.Option.Create)
			options.GET("/:id", ctl.Option.Get)
			options.PUT("/:id", ctl.Option.Update)
			options.PATCH("/:id", ctl.Option.Update)
			options.DELETE("/:id", ctl.Option.Delete)
		}
		variants := api.Group("/variants", auth)
		{
			variants.GET("", ctl.Variant.List)
			variants.POST("", ctl.Variant.Create)
			variants.GET("/:id", ctl.Variant.Get)
			variants.PUT("/:id", ctl.Variant.Update)
			variants.PATCH("/:id", ctl.Variant.Update)
			variants.DELETE("/:id", ctl.Variant.Delete)
		}

		// 订单
		api.GET("/place_order/:customer_id", auth, middleware.RequireSelf("customer_id"), ctl.Order.ListByCustomer)
		api.POST("/place_order/:customer_id", auth, middleware.RequireSelf("customer_id"), ctl.Order.PlaceOrder)
		api.GET("/orders/:order_id", auth, ctl.Order.Get)

		// 店主后台
		api.GET("/getshop/:user_id", auth, middleware.RequireSelf("user_id"), ctl.Shop.Dashboard)
		api.GET("/customers/:shop_id", auth, middleware.RequireShopOwner("shop_id"), ctl.Shop.ListCustomers)

		// 前台
		api.GET("/storefront/:domain", ctl.Shop.Storefront)
	}

	return r
}
