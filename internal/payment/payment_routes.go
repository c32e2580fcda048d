package payment

import (
	"go-payday/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RegisterRoutes memasang endpoint pembayaran. Role check sengaja tidak di
// middleware: service yang menegakkan urutan role -> not found -> state ->
// amount supaya respons error konsisten.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	submitLimiter := middleware.RateLimitByUser(rate.Limit(5), 10)

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		if redisClient != nil {
			payrolls.POST(
				"/:id/proceed-to-payment",
				submitLimiter,
				middleware.Idempotency(redisClient),
				handler.ProceedToPayment,
			)
		} else {
			payrolls.POST("/:id/proceed-to-payment", submitLimiter, handler.ProceedToPayment)
		}
	}

	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		if redisClient != nil {
			payments.POST("/card", submitLimiter, middleware.Idempotency(redisClient), handler.SubmitCard)
			payments.POST("/bank", submitLimiter, middleware.Idempotency(redisClient), handler.SubmitBank)
		} else {
			payments.POST("/card", submitLimiter, handler.SubmitCard)
			payments.POST("/bank", submitLimiter, handler.SubmitBank)
		}
		payments.GET("/history", handler.History)
	}
}
