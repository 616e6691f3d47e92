package model

import "github.com/shopspring/decimal"

// TransferInstruction is one (destination, amount) pair. Amount is in minor
// units of the target chain. A forwarding operation either bundles a list of
// these into a single transaction or sends them as independent transactions,
// depending on provider capability.
type TransferInstruction struct {
	To     string
	Amount *Web3BigInt
}

// SplitResult is the merchant/platform breakdown of a payment total, in
// chain-native units. MerchantAmount + PlatformFee reconciles with Total
// within 1e-8.
type SplitResult struct {
	MerchantAmount decimal.Decimal `json:"merchant_amount"`
	PlatformFee    decimal.Decimal `json:"platform_fee"`
	Total          decimal.Decimal `json:"total"`
}

// ForwardingOutcome is the transient result of one forwarding attempt. A
// failed outcome may still carry a merchant transaction hash when the
// merchant leg succeeded before the platform leg failed; callers must not
// assume failure means no funds moved.
type ForwardingOutcome struct {
	Success        bool   `json:"success"`
	PaymentCode    string `json:"payment_code"`
	MerchantTxHash string `json:"merchant_tx_hash,omitempty"`
	PlatformTxHash string `json:"platform_tx_hash,omitempty"`
	MerchantAmount string `json:"merchant_amount,omitempty"`
	PlatformFee    string `json:"platform_fee,omitempty"`
	Error          string `json:"error,omitempty"`
	ErrorKind      string `json:"error_kind,omitempty"`
}

// BatchForwardResult aggregates one batch-forward invocation.
type BatchForwardResult struct {
	Processed  int                 `json:"processed"`
	Successful int                 `json:"successful"`
	Failed     int                 `json:"failed"`
	Results    []ForwardingOutcome `json:"results"`
}
