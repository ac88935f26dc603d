package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/boost_stream_server/config"
	"github.com/qs3c/boost_stream_server/internal/api/handler"
	"github.com/qs3c/boost_stream_server/internal/api/middleware"
	"github.com/qs3c/boost_stream_server/internal/pkg/jwt"
)

type Router struct {
	streamHandler       *handler.StreamHandler
	quotaHandler        *handler.QuotaHandler
	planHandler         *handler.PlanHandler
	subscriptionHandler *handler.SubscriptionHandler
	paymentHandler      *handler.PaymentHandler
	streamerHandler     *handler.StreamerHandler
	streamers           middleware.StreamerLookup
	cfg                 *config.Config
}

func NewRouter(
	streamHandler *handler.StreamHandler,
	quotaHandler *handler.QuotaHandler,
	planHandler *handler.PlanHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	paymentHandler *handler.PaymentHandler,
	streamerHandler *handler.StreamerHandler,
	streamers middleware.StreamerLookup,
	cfg *config.Config,
) *Router {
	return &Router{
		streamHandler:       streamHandler,
		quotaHandler:        quotaHandler,
		planHandler:         planHandler,
		subscriptionHandler: subscriptionHandler,
		paymentHandler:      paymentHandler,
		streamerHandler:     streamerHandler,
		streamers:           streamers,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	{
		// 套餐目录（公开）
		plans := api.Group("/plans")
		{
			plans.GET("", r.planHandler.List)
			plans.GET("/:id", r.planHandler.Get)
		}

		authed := api.Group("", middleware.Auth(r.cfg.JWT.Secret))

		// 主播档案
		authed.POST("/streamer", r.streamerHandler.Register)
		authed.GET("/streamer", r.streamerHandler.Profile)

		own := authed.Group("", middleware.RequireStreamer(r.streamers))
		{
			streams := own.Group("/streams")
			{
				streams.GET("", r.streamHandler.List)
				streams.POST("", r.streamHandler.Create)
				streams.GET("/:id", r.streamHandler.Get)
				streams.PUT("/:id", r.streamHandler.Update)
				streams.DELETE("/:id", r.streamHandler.Delete)
				streams.POST("/:id/start", r.streamHandler.Start)
				streams.POST("/:id/end", r.streamHandler.End)
				streams.POST("/:id/cancel", r.streamHandler.Cancel)
			}

			quota := own.Group("/quota")
			{
				quota.GET("", r.quotaHandler.Overview)
				quota.GET("/check", r.quotaHandler.Check)
				quota.GET("/daily", r.quotaHandler.Daily)
				quota.GET("/range", r.quotaHandler.Range)
				quota.GET("/unused", r.quotaHandler.Unused)
			}

			subscriptions := own.Group("/subscriptions")
			{
				subscriptions.GET("", r.subscriptionHandler.List)
				subscriptions.POST("", r.subscriptionHandler.Select)
				subscriptions.GET("/active", r.subscriptionHandler.Active)
			}

			own.GET("/payments", r.paymentHandler.List)
		}

		admin := authed.Group("/admin", middleware.RequireRole(jwt.RoleAdmin))
		{
			admin.GET("/plans", r.planHandler.ListAll)
			admin.POST("/plans", r.planHandler.Create)
			admin.PUT("/plans/:id", r.planHandler.Update)
			admin.POST("/plans/:id/toggle", r.planHandler.Toggle)
			admin.DELETE("/plans/:id", r.planHandler.Delete)

			admin.GET("/subscriptions/:id", r.subscriptionHandler.Get)
			admin.PUT("/subscriptions/:id", r.subscriptionHandler.AdminUpdate)

			admin.POST("/payments", r.paymentHandler.Record)
			admin.POST("/payments/:id/complete", r.paymentHandler.Complete)
			admin.POST("/payments/:id/refund", r.paymentHandler.Refund)
			admin.POST("/payments/:id/retry", r.paymentHandler.Retry)
		}
	}

	return engine
}
