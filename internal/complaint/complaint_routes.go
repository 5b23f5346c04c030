package complaint

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
	complaints := r.Group("/complaints")
	complaints.Use(middleware.AuthMiddleware())
	{
		complaints.POST("",
			rbac.Authorize(rbacService, "complaint", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		complaints.GET("/my", rbac.Authorize(rbacService, "complaint", "read_own"), handler.ListMine)
		complaints.GET("/all", rbac.Authorize(rbacService, "complaint", "read_all"), handler.ListAll)
		complaints.PUT("/:id/assign/:assigneeId", rbac.Authorize(rbacService, "complaint", "assign"), handler.Assign)
		complaints.PUT("/:id", rbac.Authorize(rbacService, "complaint", "update"), handler.Update)
	}
}
