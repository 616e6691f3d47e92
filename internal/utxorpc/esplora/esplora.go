package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type esplora struct {
	baseURL string
	client  *resty.Client
	logger  *logger.Logger
}

func New(baseURL string, logger *logger.Logger) IEsplora {
	client := resty.New().
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	return &esplora{
		baseURL: baseURL,
		client:  client,
		logger:  logger,
	}
}

func (c *esplora) GetUTXOs(ctx context.Context, address string) ([]UTXO, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/address/%s/utxo", c.baseURL, address))
	if err != nil {
		c.logger.Error("[GetUTXOs][client.Get]", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return nil, apperror.Wrap(err, apperror.KindNetworkError, "fetch utxos")
	}
	if resp.StatusCode() != 200 {
		return nil, apperror.New(apperror.KindNetworkError, "fetch utxos: status %d: %s", resp.StatusCode(), resp.String())
	}

	var utxos []UTXO
	if err := json.Unmarshal(resp.Body(), &utxos); err != nil {
		return nil, apperror.Wrap(err, apperror.KindNetworkError, "parse utxos")
	}

	return utxos, nil
}

func (c *esplora) GetBalance(ctx context.Context, address string) (int64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/address/%s", c.baseURL, address))
	if err != nil {
		c.logger.Error("[GetBalance][client.Get]", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return 0, apperror.Wrap(err, apperror.KindNetworkError, "fetch balance")
	}
	if resp.StatusCode() != 200 {
		return 0, apperror.New(apperror.KindNetworkError, "fetch balance: status %d", resp.StatusCode())
	}

	var response GetBalanceResponse
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return 0, errors.Wrap(err, "failed to parse balance response")
	}

	// Unfunded addresses report zero, never an error.
	return response.ChainStats.FundedTxoSum - response.ChainStats.SpentTxoSum, nil
}

// EstimateFees returns a map of confirmation targets (in blocks) to fee
// rates in minor units per vbyte, e.g. {"1": 25.0, "6": 10.0}.
func (c *esplora) EstimateFees(ctx context.Context) (map[string]float64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/fee-estimates", c.baseURL))
	if err != nil {
		c.logger.Error("[EstimateFees][client.Get]", map[string]string{
			"error": err.Error(),
		})
		return nil, apperror.Wrap(err, apperror.KindNetworkError, "fetch fee estimates")
	}
	if resp.StatusCode() != 200 {
		return nil, apperror.New(apperror.KindNetworkError, "fetch fee estimates: status %d", resp.StatusCode())
	}

	var fees map[string]float64
	if err := json.Unmarshal(resp.Body(), &fees); err != nil {
		return nil, errors.Wrap(err, "failed to parse fee estimates")
	}

	return fees, nil
}

func (c *esplora) BroadcastTx(ctx context.Context, txHex string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetBody(txHex).
		Post(fmt.Sprintf("%s/tx", c.baseURL))
	if err != nil {
		c.logger.Error("[BroadcastTx][client.Post]", map[string]string{
			"error": err.Error(),
		})
		return "", apperror.Wrap(err, apperror.KindNetworkError, "broadcast transaction")
	}
	if resp.StatusCode() != 200 {
		c.logger.Error("[BroadcastTx] broadcast rejected", map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode()),
			"body":   resp.String(),
		})
		return "", apperror.New(apperror.KindNetworkError, "broadcast rejected: status %d: %s", resp.StatusCode(), resp.String())
	}

	return resp.String(), nil
}
