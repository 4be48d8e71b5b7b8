// internal/router/router.go
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/gin-gonic/gin"

	"github.com/driprats/storefront-admin/internal/config"
	"github.com/driprats/storefront-admin/internal/handlers"
	"github.com/driprats/storefront-admin/internal/middleware"
	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/services"
	"github.com/driprats/storefront-admin/internal/utils"
)

// Dependencies are the storage backends the routes run against. Audit and
// Repairs may be nil when the relational store is disabled; Images may be nil
// when no bucket is configured.
type Dependencies struct {
	Products   services.ProductStore
	Orders     services.OrderScanner
	Images     s3iface.S3API
	Audit      middleware.AuditRecorder
	Repairs    services.RepairRecorder
	HTTPClient *http.Client
}

// Initialize builds the engine. Background limiter cleanup stops when ctx is done.
func Initialize(ctx context.Context, deps Dependencies, cfg *config.Config) *gin.Engine {
	// Initialize services
	throttle := services.NewLoginThrottle(cfg.Auth.MaxFailedLogins, time.Duration(cfg.Auth.LockoutMinutes)*time.Minute)
	authService := services.NewAuthService(cfg, throttle)
	imageService := services.NewImageService(deps.Images, cfg.Storage)
	allowedHosts := cfg.Images.AllowedHosts
	if host := imageService.Host(); host != "" {
		allowedHosts = append(append([]string(nil), allowedHosts...), host)
	}
	productService := services.NewProductService(deps.Products, deps.Repairs, allowedHosts)
	orderService := services.NewOrderService(deps.Orders)
	shippingService := services.NewShippingService(cfg.Shipping, deps.HTTPClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, handlers.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.IsProduction(),
	})
	productHandler := handlers.NewProductHandler(productService)
	imageHandler := handlers.NewImageHandler(imageService)
	orderHandler := handlers.NewOrderHandler(orderService, shippingService)
	pageHandler := handlers.NewPageHandler("Storefront Admin")

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	generalLimiter := middleware.PerSecond(cfg.RateLimit.GeneralPerSecond, cfg.RateLimit.GeneralBurst)
	authLimiter := middleware.PerMinute(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst)
	go generalLimiter.Run(ctx)
	go authLimiter.Run(ctx)

	// Initialize Gin router
	r := gin.New()
	handlers.LoadTemplates(r)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Pages
	pages := r.Group("")
	pages.Use(middleware.RouteGuard(middleware.GuardConfig{
		CookieName:  cfg.Auth.CookieName,
		LoginPath:   "/login",
		AdminPrefix: "/admin",
	}))
	{
		pages.GET("/", pageHandler.Root)
		pages.GET("/login", pageHandler.Login)
		pages.GET("/admin", pageHandler.Admin)
		pages.GET("/admin/*path", pageHandler.Admin)
	}

	session := middleware.SessionRequired(authService, cfg.Auth.CookieName)
	admin := middleware.RoleRequired(models.RoleAdmin)

	// API routes
	api := r.Group("/api")
	api.Use(generalLimiter.Middleware())
	api.Use(middleware.AuditLogMiddleware(deps.Audit))
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(authLimiter.Middleware())
		{
			auth.POST("/login", authHandler.Login)
			auth.DELETE("/login", authHandler.Logout)
			auth.GET("/me", session, authHandler.Me)
		}

		// Product routes
		products := api.Group("/products")
		products.Use(session, admin)
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.POST("/reconcile", productHandler.Reconcile)
			products.POST("/images", imageHandler.Upload)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.GET("/:id/search-index", productHandler.GetSearchEntry)
		}

		// Order routes
		orders := api.Group("/orders")
		orders.Use(session, admin)
		{
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/stats", orderHandler.GetOrderStats)
		}
	}

	return r
}
