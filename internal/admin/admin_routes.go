package admin

import (
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	group := r.Group("/admin")
	group.Use(middleware.AuthMiddleware())
	{
		reads := group.Group("", rbac.Authorize(rbacService, "admin", "read"))
		reads.GET("/users/count", handler.UserCount)
		reads.GET("/leaves/statistics", handler.LeaveStatistics)
		reads.GET("/complaints/statistics", handler.ComplaintStatistics)
		reads.GET("/settings", handler.GetSettings)

		writes := group.Group("", rbac.Authorize(rbacService, "admin", "write"))
		writes.PUT("/settings", handler.SaveSettings)
		writes.POST("/settings/reset", handler.ResetSettings)
	}
}
