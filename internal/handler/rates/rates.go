package rates

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/oracle"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
	"github.com/dwarvesf/payment-forwarder/internal/view"
)

type IHandler interface {
	Convert(c *gin.Context)
}

type handler struct {
	oracle oracle.IOracle
	logger *logger.Logger
}

func New(oracle oracle.IOracle, logger *logger.Logger) IHandler {
	return &handler{
		oracle: oracle,
		logger: logger,
	}
}

type ConvertRequest struct {
	Chain     string `form:"chain" validate:"required"`
	Amount    string `form:"amount" validate:"required"`
	Fiat      string `form:"fiat"`
	Direction string `form:"direction" validate:"omitempty,oneof=fiat_to_crypto crypto_to_fiat"`
}

type convertResponse struct {
	Chain  string `json:"chain"`
	Fiat   string `json:"fiat"`
	Amount string `json:"amount"`
	Result string `json:"result"`
	Rate   string `json:"rate"`
}

// Convert godoc
// @Summary Convert between fiat and crypto amounts
// @Description Convert a fiat amount to chain-native units, or the reverse with direction=crypto_to_fiat
// @id convertRates
// @Tags Rates
// @Accept json
// @Produce json
// @Param chain query string true "chain id (btc, bch, eth, base, sol)"
// @Param amount query string true "amount to convert"
// @Param fiat query string false "fiat currency, default usd"
// @Param direction query string false "fiat_to_crypto (default) or crypto_to_fiat"
// @Success 200 {object} convertResponse
// @Failure 400 {object} view.ErrorResponse
// @Router /rates/convert [get]
func (h *handler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("[Convert][ShouldBindQuery]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, "", "invalid request"))
		return
	}

	// validate req
	if err := validator.New().Struct(req); err != nil {
		h.logger.Error("[Convert][Validator]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, "", "invalid request"))
		return
	}

	chain := model.Chain(req.Chain)
	fiat := req.Fiat
	if fiat == "" {
		fiat = "usd"
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, "", "invalid amount"))
		return
	}

	ctx := c.Request.Context()

	var result decimal.Decimal
	switch req.Direction {
	case "", "fiat_to_crypto":
		result, err = h.oracle.FiatToCrypto(ctx, amount, chain, fiat)
	case "crypto_to_fiat":
		result, err = h.oracle.CryptoToFiat(ctx, amount, chain, fiat)
	}
	if err != nil {
		h.logger.Error("[Convert] conversion failed", map[string]string{
			"chain": string(chain),
			"fiat":  fiat,
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, "", "can't convert amount"))
		return
	}

	rate, err := h.oracle.GetRate(ctx, chain, fiat)
	if err != nil {
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, "", "can't get rate"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse[any](convertResponse{
		Chain:  string(chain),
		Fiat:   fiat,
		Amount: amount.String(),
		Result: result.String(),
		Rate:   rate.String(),
	}, nil, "", ""))
}
