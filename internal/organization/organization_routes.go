package organization

import (
	"go-payday/internal/domain"
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	orgs := r.Group("/organizations")
	orgs.Use(middleware.AuthMiddleware())
	{
		orgs.GET("/settings", middleware.RoleMiddleware(domain.RoleAdmin, domain.RoleSuperAdmin), handler.GetSettings)
		orgs.PATCH("/settings", middleware.RoleMiddleware(domain.RoleSuperAdmin), handler.UpdateSettings)
	}
}
