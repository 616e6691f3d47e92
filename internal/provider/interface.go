package provider

import (
	"context"

	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

// IProvider is the uniform capability contract over the per-family
// transaction builders. Callers stay agnostic to which concrete chain they
// drive.
type IProvider interface {
	// Balance returns the current spendable balance in minor units. An
	// unfunded address yields zero, not an error.
	Balance(ctx context.Context, address string) (*model.Web3BigInt, error)

	// ConfirmationsRequired is the per-chain constant used upstream to
	// decide when a payment may transition to confirmed.
	ConfirmationsRequired() int

	// Transfer moves amount from the one-time address to a single
	// destination and returns the network-assigned transaction id.
	Transfer(ctx context.Context, from, to string, amount *model.Web3BigInt, key *keystore.Material) (string, error)
}

// ISplitTransferrer is implemented only by builders whose chain can encode
// multiple outputs or instructions in one transaction. Its absence signals
// the orchestrator to fall back to sequential Transfer calls.
type ISplitTransferrer interface {
	TransferSplit(ctx context.Context, from string, instructions []model.TransferInstruction, key *keystore.Material) (string, error)
}

// ISequentialTransferrer is implemented by builders with no native
// multi-output instruction that still want to own the economics of a
// multi-recipient send: amounts are rescaled against the balance minus the
// per-transfer cost of every leg before any leg is submitted. Every send is
// executed and awaited; the returned ids are in instruction order.
type ISequentialTransferrer interface {
	TransferSequential(ctx context.Context, from string, instructions []model.TransferInstruction, key *keystore.Material) ([]string, error)
}
