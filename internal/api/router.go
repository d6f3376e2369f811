package api

import (
	"context"
	"net/http"
	"time"

	"aiagents-backend/config"
	_ "aiagents-backend/docs"
	adminAnalytics "aiagents-backend/internal/api/v1/admin/analytics"
	adminOrder "aiagents-backend/internal/api/v1/admin/order"
	adminUser "aiagents-backend/internal/api/v1/admin/user"
	"aiagents-backend/internal/api/v1/agent"
	"aiagents-backend/internal/api/v1/auth"
	"aiagents-backend/internal/api/v1/conversation"
	"aiagents-backend/internal/api/v1/order"
	"aiagents-backend/internal/api/v1/payment"
	"aiagents-backend/internal/api/v1/subscription"
	userRoutes "aiagents-backend/internal/api/v1/user"
	"aiagents-backend/internal/middleware"
	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter builds the HTTP handler over an already wired registry.
func NewRouter(cfg *config.Config, reg *services.Registry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", healthz(reg))

	cookies := utils.CookieOptions{
		Secure:        cfg.IsProduction(),
		AccessMaxAge:  cfg.AccessTokenTTL,
		RefreshMaxAge: cfg.RefreshTokenTTL,
	}
	requireAuth := middleware.AuthMiddleware(reg.Sessions)
	optionalAuth := middleware.OptionalAuth(reg.Sessions)

	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, auth.NewHandler(reg.Auth, reg.Sessions, cookies))
		payment.RegisterRoutes(v1, payment.NewHandler(reg.Orders))
		agent.RegisterRoutes(v1, agent.NewHandler(reg.Agents), optionalAuth, requireAuth)

		authorized := v1.Group("/")
		authorized.Use(requireAuth)
		{
			userRoutes.RegisterRoutes(authorized, userRoutes.NewHandler(reg.Users, reg.Sessions, reg.Analytics))
			order.RegisterRoutes(authorized, order.NewHandler(reg.Orders))
			subscription.RegisterRoutes(authorized, subscription.NewHandler(reg.Subscriptions))
			conversation.RegisterRoutes(authorized, conversation.NewHandler(reg.Conversations))
		}

		admin := v1.Group("/admin")
		admin.Use(requireAuth, middleware.RequireRole(models.RoleAdmin))
		{
			adminUser.RegisterRoutes(admin, adminUser.NewHandler(reg.Users))
			adminOrder.RegisterRoutes(admin, adminOrder.NewHandler(reg.Orders))
			adminAnalytics.RegisterRoutes(admin, adminAnalytics.NewHandler(reg.Analytics))
		}
	}

	return router
}

func healthz(reg *services.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok", "redis": "disabled"}
		status := http.StatusOK

		if sqlDB, err := reg.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
		if reg.Redis != nil {
			checks["redis"] = "ok"
			if err := reg.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}

		message := "ok"
		if status != http.StatusOK {
			message = "degraded"
		}
		c.JSON(status, utils.NewResponse(status, message, checks))
	}
}
