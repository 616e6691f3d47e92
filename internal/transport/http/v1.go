package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/payment-forwarder/internal/handler"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler) {
	v1 := r.Group("/api/v1")

	payments := v1.Group("/payments")
	{
		payments.POST("/batch-forward", h.PaymentHandler.BatchForward)
		payments.GET("/:code", h.PaymentHandler.Get)
		payments.POST("/:code/forward", h.PaymentHandler.Forward)
		payments.POST("/:code/retry", h.PaymentHandler.Retry)
	}

	ratesGroup := v1.Group("/rates")
	{
		ratesGroup.GET("/convert", h.RatesHandler.Convert)
	}

	// health check and metrics
	r.GET("/healthz", h.HealthHandler.Healthz)
	r.GET("/readyz", h.HealthHandler.Ready)
	r.GET("/metrics", h.MetricsHandler.Metrics)
}
