package handler

import (
	"studybud/internal/domain"
	"studybud/internal/middleware"
	"studybud/pkg/logger"

	"github.com/gin-gonic/gin"
)

// NewRouter mounts every route. CORS is applied around the returned engine by the caller.
func NewRouter(
	handlers *Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	log logger.Logger,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", handlers.Health.Check)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", rateLimitMiddleware.Limit(domain.RateLimitScopeRegister), handlers.Auth.Register)
			auth.POST("/login", rateLimitMiddleware.Limit(domain.RateLimitScopeLogin), handlers.Auth.Login)
			auth.POST("/refresh", handlers.Auth.RefreshToken)
			auth.POST("/logout", handlers.Auth.Logout)
		}

		public := v1.Group("")
		public.Use(authMiddleware.OptionalAuth())
		{
			public.GET("/rooms", handlers.Room.Home)
			public.GET("/rooms/:id", handlers.Room.Get)
			public.GET("/topics", handlers.Topic.List)
			public.GET("/activity", handlers.Activity.List)
			public.GET("/users/:id", handlers.User.Profile)
		}

		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.POST("/rooms", handlers.Room.Create)
			protected.PUT("/rooms/:id", handlers.Room.Update)
			protected.DELETE("/rooms/:id", handlers.Room.Delete)
			protected.POST("/rooms/:id/messages", handlers.Message.Create)

			protected.PUT("/messages/:id", handlers.Message.Update)
			protected.DELETE("/messages/:id", handlers.Message.Delete)

			protected.GET("/me", handlers.User.GetMe)
			protected.PUT("/me", handlers.User.UpdateMe)
			protected.DELETE("/me", handlers.User.DeleteMe)
		}
	}

	return router
}
