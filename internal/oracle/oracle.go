package oracle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

const defaultCacheTTL = 60 * time.Second

// RateOracle serves fiat prices for the supported native assets. Providers
// are tried in order; the first answer wins and is cached for the TTL so a
// burst of conversions does not hammer the upstream APIs.
type RateOracle struct {
	mux       sync.Mutex
	cache     map[string]cachedRate
	ttl       time.Duration
	providers []IRateProvider
	logger    *logger.Logger
	now       func() time.Time
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

func New(providers []IRateProvider, logger *logger.Logger) IOracle {
	return &RateOracle{
		cache:     map[string]cachedRate{},
		ttl:       defaultCacheTTL,
		providers: providers,
		logger:    logger,
		now:       time.Now,
	}
}

func (o *RateOracle) GetRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error) {
	if !chain.Valid() {
		return decimal.Zero, apperror.New(apperror.KindUnsupportedChain, "unknown chain %q", chain)
	}
	fiat = strings.ToLower(strings.TrimSpace(fiat))
	if fiat == "" {
		fiat = "usd"
	}

	key := string(chain) + "/" + fiat

	o.mux.Lock()
	cached, ok := o.cache[key]
	o.mux.Unlock()
	if ok && o.now().Sub(cached.fetchedAt) < o.ttl {
		return cached.rate, nil
	}

	rate, err := o.fetchRate(ctx, chain, fiat)
	if err != nil {
		// A stale rate beats no rate when every provider is down.
		if ok {
			o.logger.Error("[GetRate] all providers failed, serving stale rate", map[string]string{
				"pair":  key,
				"age":   o.now().Sub(cached.fetchedAt).String(),
				"error": err.Error(),
			})
			return cached.rate, nil
		}
		return decimal.Zero, err
	}

	o.mux.Lock()
	o.cache[key] = cachedRate{rate: rate, fetchedAt: o.now()}
	o.mux.Unlock()

	return rate, nil
}

func (o *RateOracle) FiatToCrypto(ctx context.Context, amount decimal.Decimal, chain model.Chain, fiat string) (decimal.Decimal, error) {
	rate, err := o.GetRate(ctx, chain, fiat)
	if err != nil {
		return decimal.Zero, err
	}
	if rate.Sign() <= 0 {
		return decimal.Zero, apperror.New(apperror.KindInternal, "non-positive rate for %s/%s", chain, fiat)
	}

	return amount.DivRound(rate, 18), nil
}

func (o *RateOracle) CryptoToFiat(ctx context.Context, amount decimal.Decimal, chain model.Chain, fiat string) (decimal.Decimal, error) {
	rate, err := o.GetRate(ctx, chain, fiat)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Mul(rate), nil
}

func (o *RateOracle) fetchRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error) {
	var lastErr error
	for _, p := range o.providers {
		rate, err := p.FetchRate(ctx, chain, fiat)
		if err != nil {
			o.logger.Error("[fetchRate] provider failed, trying next", map[string]string{
				"provider": p.Name(),
				"chain":    string(chain),
				"fiat":     fiat,
				"error":    err.Error(),
			})
			lastErr = err
			continue
		}
		return rate, nil
	}

	if lastErr == nil {
		lastErr = apperror.New(apperror.KindInternal, "no rate providers configured")
	}
	return decimal.Zero, apperror.Wrap(lastErr, apperror.KindNetworkError, "fetch %s/%s rate", chain, fiat)
}
