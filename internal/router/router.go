package router

import (
	"time"

	"barstock/internal/config"
	"barstock/internal/handler"
	"barstock/internal/middleware"
	"barstock/internal/repository"
	"barstock/internal/service"
	"barstock/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	cocktailRepo := repository.NewCocktailRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(ingredientRepo, movementRepo, cfg.LowStockThreshold)
	catalogSvc := service.NewCatalogService(cocktailRepo, ingredientRepo)
	salesSvc := service.NewSalesService(saleRepo, ingredientRepo, cocktailRepo, movementRepo, catalogSvc, dispatcher, cfg.LowStockThreshold)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ingredientsH := handler.NewIngredientsHandler(inventorySvc)
	cocktailsH := handler.NewCocktailsHandler(catalogSvc)
	salesH := handler.NewSalesHandler(salesSvc)
	priceH := handler.NewPriceHandler(ingredientRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/price/:name", priceH.GetPriceByName)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: bartender, admin — declared per-endpoint
		staff := middleware.RequireRole("bartender", "admin")
		adminOnly := middleware.RequireRole("admin")

		ing := v1.Group("/ingredients")
		{
			ing.POST("", staff, ingredientsH.Create)
			ing.GET("", staff, ingredientsH.List)
			ing.GET("/alerts", staff, ingredientsH.LowStock)
			ing.GET("/valuation", adminOnly, ingredientsH.Valuation)
			ing.GET("/:id", staff, ingredientsH.Get)
			ing.GET("/:id/movements", staff, ingredientsH.Movements)
			ing.POST("/:id/restock", staff, ingredientsH.Restock)
			ing.POST("/:id/adjust", adminOnly, ingredientsH.AdjustStock)
		}

		ck := v1.Group("/cocktails")
		{
			ck.POST("", staff, cocktailsH.Create)
			ck.GET("", staff, cocktailsH.List)
			ck.GET("/:id", staff, cocktailsH.Get)
			ck.GET("/:id/availability", staff, cocktailsH.Availability)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("/cocktail", staff, salesH.SellCocktail)
			sales.POST("/ingredient", staff, salesH.SellIngredient)
			sales.GET("", staff, salesH.List)
			sales.GET("/report", adminOnly, salesH.Report)
		}

		v1.POST("/auth/users", adminOnly, authH.CreateUser)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
