package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/forwarder"
	"github.com/dwarvesf/payment-forwarder/internal/handler/health"
	"github.com/dwarvesf/payment-forwarder/internal/handler/metrics"
	"github.com/dwarvesf/payment-forwarder/internal/handler/payment"
	"github.com/dwarvesf/payment-forwarder/internal/handler/rates"
	oracleService "github.com/dwarvesf/payment-forwarder/internal/oracle"
	"github.com/dwarvesf/payment-forwarder/internal/store"
	"github.com/dwarvesf/payment-forwarder/internal/utils/config"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type Handler struct {
	PaymentHandler payment.IHandler
	RatesHandler   rates.IHandler
	HealthHandler  health.IHealthHandler
	MetricsHandler *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	fwd forwarder.IForwarder,
	oracleSvc oracleService.IOracle,
	s *store.Store,
	db *gorm.DB,
	metricsRegistry *prometheus.Registry) *Handler {
	return &Handler{
		PaymentHandler: payment.New(fwd, s, db, appConfig, logger),
		RatesHandler:   rates.New(oracleSvc, logger),
		HealthHandler:  health.New(db, logger),
		MetricsHandler: metrics.NewMetricsHandler(metricsRegistry),
	}
}
