package payment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/forwarder"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/store"
	"github.com/dwarvesf/payment-forwarder/internal/utils/config"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
	"github.com/dwarvesf/payment-forwarder/internal/view"
)

type handler struct {
	forwarder forwarder.IForwarder
	store     *store.Store
	db        *gorm.DB
	appConfig *config.AppConfig
	logger    *logger.Logger
}

func New(fwd forwarder.IForwarder, store *store.Store, db *gorm.DB, appConfig *config.AppConfig, logger *logger.Logger) IHandler {
	return &handler{
		forwarder: fwd,
		store:     store,
		db:        db,
		appConfig: appConfig,
		logger:    logger,
	}
}

// Get godoc
// @Summary Get payment by code
// @Description Look up a payment and its forwarding state by payment code
// @id getPayment
// @Tags Payment
// @Accept json
// @Produce json
// @Param code path string true "payment code"
// @Success 200 {object} model.Payment
// @Failure 404 {object} view.ErrorResponse
// @Router /payments/{code} [get]
func (h *handler) Get(c *gin.Context) {
	code := c.Param("code")

	p, err := h.store.Payment.GetByCode(h.db, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, err, "", "payment not found"))
			return
		}
		h.logger.Error("[Get][store.Payment.GetByCode]", map[string]string{
			"code":  code,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, "", "can't get payment"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](p, nil, "", ""))
}

// Forward godoc
// @Summary Forward a confirmed payment
// @Description Move a confirmed payment's funds to the merchant and platform wallets
// @id forwardPayment
// @Tags Payment
// @Accept json
// @Produce json
// @Param code path string true "payment code"
// @Success 200 {object} model.ForwardingOutcome
// @Failure 409 {object} view.ErrorResponse
// @Router /payments/{code}/forward [post]
func (h *handler) Forward(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}

	outcome := h.forwarder.Forward(c.Request.Context(), id)
	c.JSON(outcomeStatus(outcome), view.CreateResponse[any](outcome, nil, "", ""))
}

// Retry godoc
// @Summary Retry a failed forwarding attempt
// @Description Re-attempt forwarding for a payment in forwarding_failed
// @id retryPayment
// @Tags Payment
// @Accept json
// @Produce json
// @Param code path string true "payment code"
// @Success 200 {object} model.ForwardingOutcome
// @Failure 409 {object} view.ErrorResponse
// @Router /payments/{code}/retry [post]
func (h *handler) Retry(c *gin.Context) {
	id, ok := h.paymentID(c)
	if !ok {
		return
	}

	outcome := h.forwarder.Retry(c.Request.Context(), id)
	c.JSON(outcomeStatus(outcome), view.CreateResponse[any](outcome, nil, "", ""))
}

// BatchForward godoc
// @Summary Forward all confirmed payments
// @Description Pick up confirmed payments and forward them sequentially
// @id batchForward
// @Tags Payment
// @Accept json
// @Produce json
// @Success 200 {object} model.BatchForwardResult
// @Router /payments/batch-forward [post]
func (h *handler) BatchForward(c *gin.Context) {
	result := h.forwarder.BatchForward(c.Request.Context(), h.appConfig.Forwarding.BatchLimit)
	c.JSON(http.StatusOK, view.CreateResponse[any](result, nil, "", ""))
}

// paymentID resolves the payment code path parameter to the internal id.
func (h *handler) paymentID(c *gin.Context) (uint, bool) {
	code := c.Param("code")

	p, err := h.store.Payment.GetByCode(h.db, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, err, "", "payment not found"))
			return 0, false
		}
		h.logger.Error("[paymentID][store.Payment.GetByCode]", map[string]string{
			"code":  code,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, "", "can't get payment"))
		return 0, false
	}

	return p.ID, true
}

func outcomeStatus(outcome *model.ForwardingOutcome) int {
	if outcome.Success {
		return http.StatusOK
	}

	switch apperror.Kind(outcome.ErrorKind) {
	case apperror.KindAlreadyForwarded, apperror.KindInvalidState:
		return http.StatusConflict
	case apperror.KindInvalidAmount:
		return http.StatusBadRequest
	case apperror.KindUnsupportedChain:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
