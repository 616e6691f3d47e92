package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type IHealthHandler interface {
	Healthz(c *gin.Context)
	Ready(c *gin.Context)
}

type handler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func New(db *gorm.DB, logger *logger.Logger) IHealthHandler {
	return &handler{
		db:     db,
		logger: logger,
	}
}

func (h *handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "ok",
	})
}

// Ready reports whether the database connection is usable. Load balancers
// should route traffic only when this returns 200.
func (h *handler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}

	if err != nil {
		h.logger.Error("[Ready] database ping failed", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"message": "database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ready",
	})
}
