package employee

import (
	"go-payday/internal/domain"
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	adminOnly := middleware.RoleMiddleware(domain.RoleAdmin, domain.RoleSuperAdmin)

	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", handler.GetAll)
		employees.GET("/:id", handler.GetById)
		employees.PATCH("/:id/iban", adminOnly, handler.UpdateIBAN)
	}
}
