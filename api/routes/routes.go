package routes

import (
	"time"

	"github.com/letterdraw/letterdraw-backend/internal/config"
	"github.com/letterdraw/letterdraw-backend/internal/handlers"
	"github.com/letterdraw/letterdraw-backend/internal/middleware"
	"github.com/letterdraw/letterdraw-backend/internal/models"
	"github.com/letterdraw/letterdraw-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles the wired handler set main.go hands to the router.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Ticket *handlers.TicketHandler
	Claim  *handlers.ClaimHandler
	Oracle *handlers.OracleHandler
	Admin  *handlers.AdminHandler
	Round  *handlers.RoundHandler
	WS     *handlers.WSHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, tokens *jwt.TokenService, redisClient *redis.Client, h Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	var rateLimit gin.HandlerFunc
	if cfg.RateLimit.Enabled && redisClient != nil {
		window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
		rateLimit = middleware.RateLimitMiddleware(redisClient, cfg.RateLimit.Limit, window)
	}
	limited := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		if rateLimit == nil {
			return []gin.HandlerFunc{handler}
		}
		return []gin.HandlerFunc{rateLimit, handler}
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", h.Auth.Login)

		public.POST("/tickets", limited(h.Ticket.BuyTicket)...)
		public.POST("/claims", limited(h.Claim.ClaimPrize)...)
		public.GET("/claims/:digest", h.Claim.IsClaimed)

		public.GET("/status", h.Round.GetStatus)
		public.GET("/rounds", h.Round.ListRounds)
		public.GET("/rounds/:number", h.Round.GetRound)
		public.GET("/rounds/:number/claims", h.Round.GetRoundClaims)
		public.GET("/rounds/:number/events", h.Round.GetRoundEvents)
		public.GET("/fees/total", h.Round.GetFeeTotal)
		public.GET("/events", h.Round.GetRecentEvents)

		public.GET("/ws", h.WS.Subscribe)
	}

	// Oracle callback, authenticated by shared token inside the handler
	router.POST("/api/v1/oracle/fulfill", h.Oracle.Fulfill)

	// Authority routes
	authority := router.Group("/api/v1")
	authority.Use(middleware.JWTAuthMiddleware(tokens))
	authority.Use(middleware.RequireRole(models.RoleAuthority))
	{
		authority.POST("/commitments", h.Claim.SubmitCommitment)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(tokens))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/settings", h.Admin.GetSettings)
		admin.PUT("/ticket-price", h.Admin.UpdateTicketPrice)
		admin.PUT("/ticket-threshold", h.Admin.UpdateTicketThreshold)
		admin.PUT("/fee-config", h.Admin.UpdateFeeConfig)
		admin.PUT("/vrf-subscription", h.Admin.UpdateVRFSubscription)
		admin.POST("/clear-stuck-request", h.Admin.ClearStuckRequest)
	}

	return router
}
