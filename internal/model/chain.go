package model

// Chain identifies a supported blockchain network.
type Chain string

const (
	ChainBTC  Chain = "btc"
	ChainBCH  Chain = "bch"
	ChainETH  Chain = "eth"
	ChainBase Chain = "base"
	ChainSOL  Chain = "sol"
)

// ChainFamily groups chains by their transaction accounting model. Each
// family has its own builder; chains within a family differ only by policy
// constants and injected strategies.
type ChainFamily string

const (
	// FamilyUTXO covers unspent-output accounting (inputs consumed, outputs
	// created, byte-size fees, dust rules).
	FamilyUTXO ChainFamily = "utxo"

	// FamilyAccount covers balance-and-gas accounting with per-account
	// nonces and no native multi-output transfer.
	FamilyAccount ChainFamily = "account"

	// FamilyMultiSend covers chains that bundle many transfer instructions
	// into one signed transaction with a fixed protocol fee.
	FamilyMultiSend ChainFamily = "multisend"
)

func (c Chain) Valid() bool {
	switch c {
	case ChainBTC, ChainBCH, ChainETH, ChainBase, ChainSOL:
		return true
	}
	return false
}
