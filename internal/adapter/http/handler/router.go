package handler

import (
	"time"

	"multicurrency-wallet/internal/adapter/http/middleware"
	"multicurrency-wallet/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AllowedOrigins []string
	Mode           string // gin mode; empty means release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(cors.New(corsConfig(deps.AllowedOrigins)))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rules[group], deps.Logger)
	}

	api := r.Group("/api")
	api.GET("/currencies", Currencies)

	h := NewWalletHandler(deps.WalletSvc)
	wallets := api.Group("/wallets")
	{
		wallets.POST("", rl(middleware.GroupWalletWrite), h.Create)
		wallets.GET("", rl(middleware.GroupRead), h.List)
		wallets.POST("/exchange", rl(middleware.GroupExchange), h.Exchange)
		wallets.GET("/:id", rl(middleware.GroupRead), h.Get)
		wallets.GET("/:id/transactions", rl(middleware.GroupRead), h.Transactions)
		wallets.POST("/:id/deposit", rl(middleware.GroupWalletWrite), h.Deposit)
		wallets.POST("/:id/withdraw", rl(middleware.GroupWalletWrite), h.Withdraw)
		wallets.POST("/:id/freeze", rl(middleware.GroupWalletWrite), h.Freeze)
		wallets.POST("/:id/unfreeze", rl(middleware.GroupWalletWrite), h.Unfreeze)
		wallets.POST("/:id/close", rl(middleware.GroupWalletWrite), h.Close)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
