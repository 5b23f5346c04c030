package auth

import (
	"staffdesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/auth")
	{
		// Credential endpoints are brute-force targets; keep them slow.
		limited := group.Group("", middleware.RateLimitByIP(rate.Limit(1), 5))
		limited.POST("/login", handler.Login)
		limited.POST("/register", handler.Register)

		group.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
