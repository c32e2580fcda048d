package payroll

import (
	"go-payday/internal/domain"
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	adminOnly := middleware.RoleMiddleware(domain.RoleAdmin, domain.RoleSuperAdmin)

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", handler.GetAll)
		payrolls.GET("/:id", handler.GetById)
		if redisClient != nil {
			payrolls.POST(
				"",
				middleware.Idempotency(redisClient),
				adminOnly,
				handler.Create,
			)
		} else {
			payrolls.POST("", adminOnly, handler.Create)
		}
		payrolls.POST("/:id/reopen", adminOnly, handler.Reopen)
		payrolls.DELETE("/:id", adminOnly, handler.Delete)
	}
}
