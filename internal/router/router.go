package router

import (
	"time"

	"github.com/DaviAleixo/pollyana3-sub000/internal/cart"
	"github.com/DaviAleixo/pollyana3-sub000/internal/config"
	"github.com/DaviAleixo/pollyana3-sub000/internal/events"
	"github.com/DaviAleixo/pollyana3-sub000/internal/handler"
	"github.com/DaviAleixo/pollyana3-sub000/internal/infra"
	"github.com/DaviAleixo/pollyana3-sub000/internal/middleware"
	"github.com/DaviAleixo/pollyana3-sub000/internal/repository"
	"github.com/DaviAleixo/pollyana3-sub000/internal/service"
	"github.com/DaviAleixo/pollyana3-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// EventBus is what services publish to and the cart stream listens on.
// In production it is an events.RedisRelay so every instance hears every
// change.
type EventBus interface {
	events.Publisher
	events.Subscriber
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, bus EventBus, cepCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "global", 1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	cepClient := infra.NewCEPClient(cfg.CEPLookupURL, cepCB)
	locker := infra.NewRedisLocker(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	bannerRepo := repository.NewBannerRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	clickRepo := repository.NewClickRepository(db)
	shippingRepo := repository.NewShippingRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, bannerRepo, rdb, bus,
		time.Duration(cfg.CatalogCacheTTLSeconds)*time.Second)
	productSvc := service.NewProductService(productRepo, categoryRepo, bus)
	categorySvc := service.NewCategoryService(categoryRepo, bus)
	bannerSvc := service.NewBannerService(bannerRepo, productRepo, categoryRepo, bus)
	stockSvc := service.NewStockService(productRepo, movementRepo, locker, bus,
		time.Duration(cfg.JWTExpirationHours)*time.Hour)
	shippingSvc := service.NewShippingService(shippingRepo, cepClient)
	clickSvc := service.NewClickService(dispatcher, clickRepo)

	engine := cart.NewEngine(cart.NewRedisStore(rdb, time.Duration(cfg.CartTTLHours)*time.Hour), bus)
	cartSvc := service.NewCartService(engine, productRepo, shippingSvc, clickSvc, service.CheckoutSettings{
		StoreName:      cfg.StoreName,
		WhatsAppNumber: cfg.WhatsAppNumber,
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	bannersH := handler.NewBannersHandler(bannerSvc)
	stockH := handler.NewStockHandler(stockSvc, cfg.LowStockThreshold)
	cartH := handler.NewCartHandler(cartSvc, bus)
	shippingH := handler.NewShippingHandler(shippingSvc)
	clicksH := handler.NewClicksHandler(clickSvc, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, cepCB))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.GET("/session", authH.Session)
	}

	v1 := r.Group("/v1")
	{
		v1.GET("/products", catalogH.Browse)
		v1.GET("/products/new", catalogH.NewArrivals)
		v1.GET("/products/:id", catalogH.Product)
		v1.GET("/categories", catalogH.Categories)
		v1.GET("/banners", catalogH.Banners)

		carts := v1.Group("/carts/:id")
		{
			carts.GET("", cartH.Get)
			carts.DELETE("", cartH.Clear)
			carts.GET("/events", cartH.Events)
			carts.POST("/items", cartH.AddItem)
			carts.PATCH("/items/:itemId", cartH.UpdateItem)
			carts.DELETE("/items/:itemId", cartH.RemoveItem)
			carts.POST("/checkout", middleware.RateLimiter(rdb, "checkout", 10, time.Minute), cartH.Checkout)
		}

		v1.GET("/shipping/quote", shippingH.Quote)
		v1.GET("/shipping/cep/:cep", middleware.RateLimiter(rdb, "cep", 30, time.Minute), shippingH.LookupCEP)
		v1.POST("/clicks", middleware.RateLimiter(rdb, "clicks", 120, time.Minute), clicksH.Track)
	}

	// Admin: one shared account, every route requires its token
	admin := r.Group("/v1/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.AdminOnly())
	{
		prods := admin.Group("/products")
		{
			prods.POST("", productsH.Create)
			prods.GET("", productsH.List)
			prods.GET("/:id", productsH.Get)
			prods.PUT("/:id", productsH.Update)
			prods.PATCH("/:id/visibility", productsH.SetVisible)
			prods.DELETE("/:id", productsH.Delete)
		}

		cats := admin.Group("/categories")
		{
			cats.POST("", categoriesH.Create)
			cats.GET("", categoriesH.List)
			cats.GET("/tree", categoriesH.Tree)
			cats.PUT("/order", categoriesH.Reorder)
			cats.PATCH("/:id", categoriesH.Update)
			cats.DELETE("/:id", categoriesH.Delete)
		}

		banners := admin.Group("/banners")
		{
			banners.POST("", bannersH.Create)
			banners.GET("", bannersH.List)
			banners.PUT("/order", bannersH.Reorder)
			banners.PUT("/:id", bannersH.Update)
			banners.DELETE("/:id", bannersH.Delete)
		}

		stock := admin.Group("/stock")
		{
			stock.GET("", stockH.Preview)
			stock.GET("/low", stockH.LowStock)
			stock.GET("/movements", stockH.Movements)
			stock.GET("/pending", stockH.Pending)
			stock.POST("/pending", stockH.Stage)
			stock.DELETE("/pending", stockH.Discard)
			stock.POST("/commit", stockH.Commit)
			stock.POST("/:id/adjust", stockH.Adjust)
		}

		admin.GET("/shipping", shippingH.Config)
		admin.PUT("/shipping", shippingH.UpdateConfig)

		admin.GET("/clicks", clicksH.Top)
		admin.GET("/jobs/dead-letters", clicksH.DeadLetters)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
