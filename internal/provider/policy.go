package provider

import (
	"github.com/dwarvesf/payment-forwarder/internal/consts"
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

// ChainPolicy carries the per-chain constants the builders are parameterized
// with. Chains within a family share one builder; only the policy (and any
// injected strategy, e.g. an address codec) differs.
type ChainPolicy struct {
	Chain         model.Chain
	Family        model.ChainFamily
	Decimals      int
	Confirmations int

	// UTXO family: outputs below DustThreshold are never created, and fee
	// estimation targets inclusion within FeeTargetBlocks.
	DustThreshold   int64
	FeeTargetBlocks int

	// Account family: fixed work units of a standard transfer and the
	// EIP-155 chain id used for signing.
	GasLimit uint64
	ChainID  int64

	// MultiSend family: protocol-defined flat fee per transaction, in minor
	// units. One-time addresses keep no reserve beyond this fee.
	FixedFee int64
}

func DefaultPolicies() map[model.Chain]ChainPolicy {
	return map[model.Chain]ChainPolicy{
		model.ChainBTC: {
			Chain:           model.ChainBTC,
			Family:          model.FamilyUTXO,
			Decimals:        consts.BTC_DECIMALS,
			Confirmations:   3,
			DustThreshold:   546,
			FeeTargetBlocks: 6,
		},
		model.ChainBCH: {
			Chain:           model.ChainBCH,
			Family:          model.FamilyUTXO,
			Decimals:        consts.BCH_DECIMALS,
			Confirmations:   6,
			DustThreshold:   546,
			FeeTargetBlocks: 6,
		},
		model.ChainETH: {
			Chain:         model.ChainETH,
			Family:        model.FamilyAccount,
			Decimals:      consts.ETH_DECIMALS,
			Confirmations: 12,
			GasLimit:      21000,
			ChainID:       1,
		},
		model.ChainBase: {
			Chain:         model.ChainBase,
			Family:        model.FamilyAccount,
			Decimals:      consts.ETH_DECIMALS,
			Confirmations: 128,
			GasLimit:      21000,
			ChainID:       8453,
		},
		model.ChainSOL: {
			Chain:         model.ChainSOL,
			Family:        model.FamilyMultiSend,
			Decimals:      consts.SOL_DECIMALS,
			Confirmations: 1,
			FixedFee:      5000,
		},
	}
}
