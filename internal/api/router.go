// Package api 在 gin 引擎上注册 HTTP 路由
package api

import (
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/litreview/config"
	_ "github.com/d60-Lab/litreview/docs"
	"github.com/d60-Lab/litreview/internal/api/handler"
	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/pkg/response"
)

// NewRouter 构建带中间件链和全部 /api/v1 路由的引擎
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	// Recovery 在 sentrygin 外层，重新抛出的 panic 仍返回 JSON 500
	r.Use(middleware.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.Logger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/media"})))
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/signup", h.Signup)
		v1.POST("/auth/login", h.Login)
		v1.GET("/media/:ref", h.Media)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(cfg.JWT.Secret))
	{
		authed.GET("/feed", h.Feed)
		authed.GET("/posts", h.Posts)
		authed.GET("/subscriptions", h.Subscriptions)

		authed.POST("/relations/follow", h.Follow)
		authed.DELETE("/relations/follow/:user_id", h.Unfollow)
		authed.GET("/relations/:user_id/following", h.ListFollowing)
		authed.GET("/relations/:user_id/followers", h.ListFollowers)

		authed.POST("/photos", h.UploadPhoto)
		authed.DELETE("/photos/:id", h.DeletePhoto)

		authed.POST("/tickets", h.CreateTicket)
		authed.GET("/tickets/:id", h.GetTicket)
		authed.PUT("/tickets/:id", h.UpdateTicket)
		authed.DELETE("/tickets/:id", h.DeleteTicket)
		authed.POST("/tickets/:id/reviews", h.CreateReview)
		authed.POST("/ticket-reviews", h.CreateTicketWithReview)

		authed.GET("/reviews/:id", h.GetReview)
		authed.PUT("/reviews/:id", h.UpdateReview)
		authed.DELETE("/reviews/:id", h.DeleteReview)
	}
	return r
}
