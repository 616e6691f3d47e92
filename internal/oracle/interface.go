package oracle

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type IOracle interface {
	// GetRate returns the fiat price of one whole coin of the chain's native
	// asset, e.g. USD per BTC. Served from cache while fresh.
	GetRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error)

	// FiatToCrypto converts a fiat amount into chain-native units.
	FiatToCrypto(ctx context.Context, amount decimal.Decimal, chain model.Chain, fiat string) (decimal.Decimal, error)

	// CryptoToFiat converts a chain-native amount into fiat.
	CryptoToFiat(ctx context.Context, amount decimal.Decimal, chain model.Chain, fiat string) (decimal.Decimal, error)
}
