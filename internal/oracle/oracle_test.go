package oracle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/types/environments"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type fakeProvider struct {
	mu    sync.Mutex
	rate  string
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchRate(ctx context.Context, chain model.Chain, fiat string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return decimal.Zero, p.err
	}
	return decimal.RequireFromString(p.rate), nil
}

func newTestOracle(providers ...IRateProvider) (*RateOracle, *time.Time) {
	now := time.Now()
	o := &RateOracle{
		cache:     map[string]cachedRate{},
		ttl:       time.Minute,
		providers: providers,
		logger:    logger.New(environments.Test),
		now:       func() time.Time { return now },
	}
	return o, &now
}

func TestGetRateCachesWithinTTL(t *testing.T) {
	p := &fakeProvider{rate: "50000"}
	o, _ := newTestOracle(p)

	ctx := context.Background()

	rate, err := o.GetRate(ctx, model.ChainBTC, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "50000", rate.String())

	_, err = o.GetRate(ctx, model.ChainBTC, "usd")
	assert.NoError(t, err)
	assert.Equal(t, 1, p.calls, "second hit within TTL must be served from cache")
}

func TestGetRateRefetchesAfterTTL(t *testing.T) {
	p := &fakeProvider{rate: "50000"}
	o, now := newTestOracle(p)

	ctx := context.Background()

	_, err := o.GetRate(ctx, model.ChainBTC, "usd")
	assert.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	p.rate = "51000"

	rate, err := o.GetRate(ctx, model.ChainBTC, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "51000", rate.String())
	assert.Equal(t, 2, p.calls)
}

func TestGetRateFallsBackToNextProvider(t *testing.T) {
	broken := &fakeProvider{err: apperror.New(apperror.KindNetworkError, "down")}
	working := &fakeProvider{rate: "42"}
	o, _ := newTestOracle(broken, working)

	rate, err := o.GetRate(context.Background(), model.ChainETH, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "42", rate.String())
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, working.calls)
}

func TestGetRateServesStaleWhenAllProvidersFail(t *testing.T) {
	p := &fakeProvider{rate: "50000"}
	o, now := newTestOracle(p)

	ctx := context.Background()

	_, err := o.GetRate(ctx, model.ChainBTC, "usd")
	assert.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	p.err = apperror.New(apperror.KindNetworkError, "down")

	rate, err := o.GetRate(ctx, model.ChainBTC, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "50000", rate.String(), "stale rate beats no rate")
}

func TestGetRateNoCacheNoProviders(t *testing.T) {
	p := &fakeProvider{err: apperror.New(apperror.KindNetworkError, "down")}
	o, _ := newTestOracle(p)

	_, err := o.GetRate(context.Background(), model.ChainBTC, "usd")
	assert.Error(t, err)
	assert.Equal(t, apperror.KindNetworkError, apperror.KindOf(err))
}

func TestGetRateRejectsUnknownChain(t *testing.T) {
	o, _ := newTestOracle(&fakeProvider{rate: "1"})

	_, err := o.GetRate(context.Background(), model.Chain("doge"), "usd")
	assert.Error(t, err)
	assert.Equal(t, apperror.KindUnsupportedChain, apperror.KindOf(err))
}

func TestConversions(t *testing.T) {
	o, _ := newTestOracle(&fakeProvider{rate: "50000"})
	ctx := context.Background()

	crypto, err := o.FiatToCrypto(ctx, decimal.RequireFromString("100"), model.ChainBTC, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "0.002", crypto.String())

	fiat, err := o.CryptoToFiat(ctx, decimal.RequireFromString("0.002"), model.ChainBTC, "usd")
	assert.NoError(t, err)
	assert.Equal(t, "100", fiat.String())
}
