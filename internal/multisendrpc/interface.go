package multisendrpc

import (
	"context"

	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type IMultiSendRpc interface {
	Balance(ctx context.Context, address string) (*model.Web3BigInt, error)
	ConfirmationsRequired() int
	Transfer(ctx context.Context, from, to string, amount *model.Web3BigInt, key *keystore.Material) (string, error)

	// TransferSplit bundles every instruction into one signed transaction;
	// the chain executes all transfers atomically for one fixed fee.
	TransferSplit(ctx context.Context, from string, instructions []model.TransferInstruction, key *keystore.Material) (string, error)
}

// IRpcClient is the thin JSON-RPC surface the builder drives.
type IRpcClient interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (string, error)
	SendTransaction(ctx context.Context, txBase64 string) (string, error)
	ConfirmTransaction(ctx context.Context, signature string) error
}
