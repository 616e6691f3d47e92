package utxorpc

import (
	"context"

	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type IUtxoRpc interface {
	Balance(ctx context.Context, address string) (*model.Web3BigInt, error)
	ConfirmationsRequired() int
	Transfer(ctx context.Context, from, to string, amount *model.Web3BigInt, key *keystore.Material) (string, error)
	TransferSplit(ctx context.Context, from string, instructions []model.TransferInstruction, key *keystore.Material) (string, error)
}
