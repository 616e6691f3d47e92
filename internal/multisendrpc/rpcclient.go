package multisendrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

const confirmPollInterval = 2 * time.Second
const confirmPollAttempts = 30

type rpcClient struct {
	endpoint string
	client   *resty.Client
	logger   *logger.Logger
}

func NewRpcClient(endpoint string, logger *logger.Logger) IRpcClient {
	client := resty.New().
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second)

	return &rpcClient{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
	}
}

type rpcRequest struct {
	JsonRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *rpcClient) call(ctx context.Context, method string, params []any, out any) error {
	var response rpcResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(rpcRequest{JsonRPC: "2.0", ID: 1, Method: method, Params: params}).
		SetResult(&response).
		Post(c.endpoint)
	if err != nil {
		c.logger.Error("[call][client.Post]", map[string]string{
			"method": method,
			"error":  err.Error(),
		})
		return apperror.Wrap(err, apperror.KindNetworkError, "rpc call %s", method)
	}
	if resp.StatusCode() != 200 {
		return apperror.New(apperror.KindNetworkError, "rpc call %s: status %d", method, resp.StatusCode())
	}
	if response.Error != nil {
		return apperror.New(apperror.KindNetworkError, "rpc call %s: %d %s", method, response.Error.Code, response.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(response.Result, out); err != nil {
			return apperror.Wrap(err, apperror.KindNetworkError, "parse %s result", method)
		}
	}

	return nil
}

func (c *rpcClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{address}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

func (c *rpcClient) GetLatestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getLatestBlockhash", []any{map[string]string{"commitment": "finalized"}}, &result); err != nil {
		return "", err
	}
	return result.Value.Blockhash, nil
}

func (c *rpcClient) SendTransaction(ctx context.Context, txBase64 string) (string, error) {
	var signature string
	err := c.call(ctx, "sendTransaction", []any{txBase64, map[string]string{"encoding": "base64"}}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}

// ConfirmTransaction polls signature statuses until the network reports the
// transaction confirmed or finalized.
func (c *rpcClient) ConfirmTransaction(ctx context.Context, signature string) error {
	for attempt := 0; attempt < confirmPollAttempts; attempt++ {
		var result struct {
			Value []*struct {
				ConfirmationStatus string `json:"confirmationStatus"`
				Err                any    `json:"err"`
			} `json:"value"`
		}
		err := c.call(ctx, "getSignatureStatuses", []any{[]string{signature}}, &result)
		if err != nil {
			return err
		}

		if len(result.Value) > 0 && result.Value[0] != nil {
			status := result.Value[0]
			if status.Err != nil {
				return apperror.New(apperror.KindNetworkError, "transaction %s failed on chain: %v", signature, status.Err)
			}
			if status.ConfirmationStatus == "confirmed" || status.ConfirmationStatus == "finalized" {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return apperror.Wrap(ctx.Err(), apperror.KindNetworkError, "await confirmation of %s", signature)
		case <-time.After(confirmPollInterval):
		}
	}

	return apperror.New(apperror.KindNetworkError, "transaction %s not confirmed after %s",
		signature, fmt.Sprintf("%d attempts", confirmPollAttempts))
}
