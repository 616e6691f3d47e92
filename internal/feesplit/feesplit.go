package feesplit

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/consts"
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

// Calculator computes the merchant/platform split of a payment total. Pure
// and stateless after construction; rates are fixed per deployment, with
// optional per-subscription-tier overrides.
type Calculator struct {
	defaultRate decimal.Decimal
	tierRates   map[string]decimal.Decimal
}

func New(defaultRate string) (*Calculator, error) {
	rate, err := parseRate(defaultRate)
	if err != nil {
		return nil, err
	}

	return &Calculator{
		defaultRate: rate,
		tierRates:   map[string]decimal.Decimal{},
	}, nil
}

func NewWithTiers(defaultRate string, tiers map[string]string) (*Calculator, error) {
	c, err := New(defaultRate)
	if err != nil {
		return nil, err
	}

	for tier, rateStr := range tiers {
		rate, err := parseRate(rateStr)
		if err != nil {
			return nil, err
		}
		c.tierRates[tier] = rate
	}

	return c, nil
}

// Split computes {merchantAmount, platformFee} for a total at the default
// rate. Both legs are rounded to 8 decimal places; merchant + fee always
// reconciles with the total within 1e-8.
func (c *Calculator) Split(total decimal.Decimal) (*model.SplitResult, error) {
	return c.splitWithRate(total, c.defaultRate)
}

// SplitForTier uses the tier's rate when one is configured, falling back to
// the default rate otherwise.
func (c *Calculator) SplitForTier(tier string, total decimal.Decimal) (*model.SplitResult, error) {
	rate, ok := c.tierRates[tier]
	if !ok {
		rate = c.defaultRate
	}
	return c.splitWithRate(total, rate)
}

// SplitString parses and splits a decimal string total. Non-numeric and
// non-finite inputs are rejected, never defaulted.
func (c *Calculator) SplitString(total string) (*model.SplitResult, error) {
	trimmed := strings.TrimSpace(total)
	switch strings.ToLower(trimmed) {
	case "nan", "+inf", "-inf", "inf", "infinity":
		return nil, apperror.New(apperror.KindInvalidAmount, "total is not a finite number: %q", total)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInvalidAmount, "total is not a valid decimal: %q", total)
	}

	return c.Split(d)
}

func (c *Calculator) splitWithRate(total, rate decimal.Decimal) (*model.SplitResult, error) {
	if total.Sign() <= 0 {
		return nil, apperror.New(apperror.KindInvalidAmount, "total must be positive, got %s", total.String())
	}

	fee := total.Mul(rate).Round(consts.FEE_SPLIT_PRECISION)
	merchant := total.Sub(fee).Round(consts.FEE_SPLIT_PRECISION)

	return &model.SplitResult{
		MerchantAmount: merchant,
		PlatformFee:    fee,
		Total:          total,
	}, nil
}

func parseRate(rateStr string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return decimal.Zero, apperror.Wrap(err, apperror.KindInvalidAmount, "invalid fee rate: %q", rateStr)
	}

	if rate.Sign() < 0 || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, apperror.New(apperror.KindInvalidAmount, "fee rate must be in [0, 1), got %s", rateStr)
	}

	return rate, nil
}
