package consts

const (
	BTC_DECIMALS = 8
	BCH_DECIMALS = 8
	ETH_DECIMALS = 18
	SOL_DECIMALS = 9

	// FEE_SPLIT_PRECISION is the number of decimal places the fee split is
	// rounded to. Amounts are reconciled within 1e-8 of the original total.
	FEE_SPLIT_PRECISION = 8

	// DEFAULT_PLATFORM_FEE_RATE is used when no tiered rate matches.
	DEFAULT_PLATFORM_FEE_RATE = "0.005"
)
