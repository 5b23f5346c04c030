package leave

import (
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("/submit",
			rbac.Authorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("/my-requests", rbac.Authorize(rbacService, "leave", "read_own"), handler.ListMine)
		leaves.GET("/all", rbac.Authorize(rbacService, "leave", "read_all"), handler.ListAll)
		leaves.PUT("/:id/approve", rbac.Authorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.PUT("/:id/reject", rbac.Authorize(rbacService, "leave", "approve"), handler.Reject)
	}
}
