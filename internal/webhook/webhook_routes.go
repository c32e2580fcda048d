package webhook

import (
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterRoutes memasang endpoint webhook. Tidak ada auth middleware di
// sini: autentikasi jalur ini adalah signature provider.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	limiter := middleware.RateLimitByIP(rate.Limit(20), 40)

	r.POST("/stripe/webhook", limiter, handler.HandlePaymentEvent)
	r.POST("/subscriptions/webhook", limiter, handler.HandleSubscriptionEvent)
}
