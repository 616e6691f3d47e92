package oracle

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

// IRateProvider is one upstream price source. Providers are interchangeable;
// the oracle walks them in configuration order.
type IRateProvider interface {
	Name() string
	FetchRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error)
}

var coinGeckoIDs = map[model.Chain]string{
	model.ChainBTC:  "bitcoin",
	model.ChainBCH:  "bitcoin-cash",
	model.ChainETH:  "ethereum",
	model.ChainBase: "ethereum", // Base settles in ETH
	model.ChainSOL:  "solana",
}

type coinGeckoProvider struct {
	client *resty.Client
}

func NewCoinGeckoProvider(baseURL string) IRateProvider {
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}
	return &coinGeckoProvider{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2),
	}
}

func (p *coinGeckoProvider) Name() string {
	return "coingecko"
}

func (p *coinGeckoProvider) FetchRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error) {
	id, ok := coinGeckoIDs[chain]
	if !ok {
		return decimal.Zero, apperror.New(apperror.KindUnsupportedChain, "no coingecko id for chain %q", chain)
	}

	var result map[string]map[string]decimal.Decimal
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           id,
			"vs_currencies": fiat,
		}).
		SetResult(&result).
		Get("/simple/price")
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.KindNetworkError, "coingecko request")
	}
	if resp.StatusCode() != 200 {
		return decimal.Zero, apperror.New(apperror.KindNetworkError, "coingecko returned status %d", resp.StatusCode())
	}

	rate, ok := result[id][fiat]
	if !ok || rate.Sign() <= 0 {
		return decimal.Zero, apperror.New(apperror.KindNetworkError, "coingecko has no %s/%s quote", id, fiat)
	}

	return rate, nil
}

var binanceSymbols = map[model.Chain]string{
	model.ChainBTC:  "BTC",
	model.ChainBCH:  "BCH",
	model.ChainETH:  "ETH",
	model.ChainBase: "ETH",
	model.ChainSOL:  "SOL",
}

type binanceProvider struct {
	client *resty.Client
}

func NewBinanceProvider(baseURL string) IRateProvider {
	if baseURL == "" {
		baseURL = "https://api.binance.com"
	}
	return &binanceProvider{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2),
	}
}

func (p *binanceProvider) Name() string {
	return "binance"
}

// FetchRate quotes against the USDT book; only USD-pegged fiats are served.
func (p *binanceProvider) FetchRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error) {
	if strings.ToLower(fiat) != "usd" {
		return decimal.Zero, apperror.New(apperror.KindNetworkError, "binance fallback only quotes usd, got %q", fiat)
	}

	symbol, ok := binanceSymbols[chain]
	if !ok {
		return decimal.Zero, apperror.New(apperror.KindUnsupportedChain, "no binance symbol for chain %q", chain)
	}

	var result struct {
		Price decimal.Decimal `json:"price"`
	}
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol+"USDT").
		SetResult(&result).
		Get("/api/v3/ticker/price")
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.KindNetworkError, "binance request")
	}
	if resp.StatusCode() != 200 {
		return decimal.Zero, apperror.New(apperror.KindNetworkError, "binance returned status %d", resp.StatusCode())
	}
	if result.Price.Sign() <= 0 {
		return decimal.Zero, apperror.New(apperror.KindNetworkError, "binance has no %sUSDT quote", symbol)
	}

	return result.Price, nil
}
