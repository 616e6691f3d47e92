package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/types/environments"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type fakeOracle struct {
	rate string
	err  error
}

func (o *fakeOracle) GetRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error) {
	if o.err != nil {
		return decimal.Zero, o.err
	}
	return decimal.RequireFromString(o.rate), nil
}

func (o *fakeOracle) FiatToCrypto(ctx context.Context, amount decimal.Decimal, chain model.Chain, fiat string) (decimal.Decimal, error) {
	if o.err != nil {
		return decimal.Zero, o.err
	}
	return amount.DivRound(decimal.RequireFromString(o.rate), 18), nil
}

func (o *fakeOracle) CryptoToFiat(ctx context.Context, amount decimal.Decimal, chain model.Chain, fiat string) (decimal.Decimal, error) {
	if o.err != nil {
		return decimal.Zero, o.err
	}
	return amount.Mul(decimal.RequireFromString(o.rate)), nil
}

func setupRouter(o *fakeOracle) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := New(o, logger.New(environments.Test))

	r := gin.New()
	r.GET("/api/v1/rates/convert", h.Convert)
	return r
}

func TestConvertFiatToCrypto(t *testing.T) {
	r := setupRouter(&fakeOracle{rate: "50000"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/rates/convert?chain=btc&amount=100", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":"0.002"`)
	assert.Contains(t, w.Body.String(), `"fiat":"usd"`)
}

func TestConvertCryptoToFiat(t *testing.T) {
	r := setupRouter(&fakeOracle{rate: "50000"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/rates/convert?chain=btc&amount=0.002&direction=crypto_to_fiat", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"result":"100"`)
}

func TestConvertMissingParams(t *testing.T) {
	r := setupRouter(&fakeOracle{rate: "50000"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/rates/convert?chain=btc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvertBadDirection(t *testing.T) {
	r := setupRouter(&fakeOracle{rate: "50000"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/rates/convert?chain=btc&amount=1&direction=sideways", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvertBadAmount(t *testing.T) {
	r := setupRouter(&fakeOracle{rate: "50000"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/rates/convert?chain=btc&amount=notanumber", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvertOracleFailure(t *testing.T) {
	r := setupRouter(&fakeOracle{err: apperror.New(apperror.KindNetworkError, "down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/rates/convert?chain=btc&amount=100", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
