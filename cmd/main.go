package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"storefront_api/internal/controller"
	"storefront_api/internal/middleware"
	"storefront_api/internal/model"
	"storefront_api/internal/repository"
	"storefront_api/internal/router"
	"storefront_api/internal/service"
	"storefront_api/pkg/cache"
	"storefront_api/pkg/config"
	"storefront_api/pkg/database"
	"storefront_api/pkg/logger"
)

// @title Storefront API
// @version 1.0
// @description 多租户店铺后端
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 0. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Must(cfg.Logger)
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)
	middleware.SetJWTConfig(middleware.NewJWTConfig(cfg.JWT))

	// 1. 初始化数据库
	db := initDatabase(cfg, log)

	// 2. 初始化依赖
	deps := initDependencies(cfg, db, log)

	// 3. 初始化路由
	r := router.SetupRouter(deps.Controllers, router.Options{
		Logger:             log,
		UploadDir:          deps.UploadDir,
		AuthCooldown:       cfg.Server.AuthCooldown,
		MaxMultipartMemory: cfg.Server.MaxMultipartMemory,
	})

	// 4. 启动服务
	startServer(cfg.Server, r, log)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
	// UploadDir 本地存储目录，非 local 存储时为空
	UploadDir string
}

// Repositories 仓库集合
type Repositories struct {
	Catalog    *repository.CatalogUnitOfWork
	Accounts   *repository.AccountUnitOfWork
	Shop       repository.ShopRepository
	User       repository.UserRepository
	Product    repository.ProductRepository
	Variant    repository.VariantRepository
	Collection repository.CollectionRepository
	Order      repository.OrderRepository
}

// Services 服务集合
type Services struct {
	Storage    *service.StorageService
	Storefront *service.StorefrontService
	User       *service.UserService
	Shop       *service.ShopService
	Product    *service.ProductService
	Collection *service.CollectionService
	Option     *service.OptionService
	Variant    *service.VariantService
	Order      *service.OrderService
	Dashboard  *service.DashboardService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config, log *zap.Logger) *gorm.DB {
	var migrate func(*gorm.DB) error
	if cfg.Database.AutoMigrate {
		migrate = model.Migrate
	}

	db, err := database.InitDB(cfg.Database, log, migrate)
	if err != nil {
		log.Fatal("数据库初始化失败", zap.Error(err))
	}
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, db *gorm.DB, log *zap.Logger) *Dependencies {
	ctx := context.Background()

	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 基础服务 --------
	storageSvc, uploadDir := initStorageService(ctx, cfg.Storage, log)
	storefrontCache := initCache(ctx, cfg.Redis, log)

	// -------- 业务服务 --------
	services := &Services{Storage: storageSvc}

	services.Storefront = service.NewStorefrontService(
		repos.Shop, repos.Product, repos.Collection,
		storefrontCache, cfg.Redis.StorefrontTTL, log,
	)
	services.User = service.NewUserService(repos.Accounts, log)
	services.Shop = service.NewShopService(repos.Shop, repos.User, services.Storefront, log)
	services.Product = service.NewProductService(repos.Catalog, repos.Shop, storageSvc, services.Storefront, log)
	services.Collection = service.NewCollectionService(repos.Catalog, repos.Shop, storageSvc, services.Storefront, log)
	services.Option = service.NewOptionService(repos.Catalog, services.Storefront, log)
	services.Variant = service.NewVariantService(repos.Catalog, services.Storefront, log)
	services.Order = service.NewOrderService(repos.Order, repos.User, repos.Shop, repos.Product, repos.Variant, log)
	services.Dashboard = service.NewDashboardService(repos.User, repos.Shop, repos.Product, repos.Order)

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: initControllers(services),
		UploadDir:   uploadDir,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	catalog := repository.NewCatalogUnitOfWork(db)
	accounts := repository.NewAccountUnitOfWork(db)
	return &Repositories{
		Catalog:    catalog,
		Accounts:   accounts,
		Shop:       accounts.Shops,
		User:       accounts.Users,
		Product:    catalog.Products,
		Variant:    catalog.Variants,
		Collection: catalog.Collections,
		Order:      repository.NewOrderRepository(db),
	}
}

// initStorageService 初始化存储服务，返回的目录仅 local 存储时非空
func initStorageService(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*service.StorageService, string) {
	provider, err := service.NewStorageProvider(ctx, cfg)
	if err != nil {
		log.Fatal("存储服务初始化失败", zap.String("provider", cfg.Provider), zap.Error(err))
	}
	log.Info("存储服务已就绪", zap.String("provider", cfg.Provider))

	var uploadDir string
	if local, ok := provider.(*service.LocalStorage); ok {
		uploadDir = local.BasePath()
	}
	return service.NewStorageService(provider), uploadDir
}

// initCache 配置了 Redis 时使用 Redis，否则退回进程内缓存
func initCache(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) cache.Cache {
	if cfg.Addr == "" {
		log.Info("未配置 Redis，使用进程内缓存")
		return cache.NewMemoryCache()
	}

	client, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Warn("Redis 不可用，使用进程内缓存", zap.String("addr", cfg.Addr), zap.Error(err))
		return cache.NewMemoryCache()
	}
	return cache.NewRedisCache(client, "storefront_api:")
}

// initControllers 初始化所有控制器
func initControllers(svc *Services) *router.Controllers {
	return &router.Controllers{
		User:       controller.NewUserController(svc.User),
		Shop:       controller.NewShopController(svc.Shop, svc.Dashboard, svc.Storefront),
		Product:    controller.NewProductController(svc.Product),
		Collection: controller.NewCollectionController(svc.Collection),
		Option:     controller.NewOptionController(svc.Option),
		Variant:    controller.NewVariantController(svc.Variant),
		Order:      controller.NewOrderController(svc.Order),
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(cfg config.ServerConfig, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("服务启动失败", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务强制关闭", zap.Error(err))
	}

	log.Info("服务已退出")
}
