package forwarder

import (
	"context"

	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type IForwarder interface {
	// Forward moves a confirmed payment's funds from its one-time address to
	// the merchant wallet and the platform fee wallet. The returned outcome is
	// always non-nil; inspect Success and ErrorKind rather than the error.
	Forward(ctx context.Context, paymentID uint) *model.ForwardingOutcome

	// Retry re-attempts a payment stuck in forwarding_failed. An already
	// forwarded payment is refused rather than re-sent.
	Retry(ctx context.Context, paymentID uint) *model.ForwardingOutcome

	// BatchForward picks up to limit confirmed payments and forwards them
	// sequentially. A failed payment never aborts the batch.
	BatchForward(ctx context.Context, limit int) *model.BatchForwardResult

	// ConfirmPending checks the on-chain balance of every pending payment's
	// receiving address and promotes fully funded ones to confirmed.
	ConfirmPending(ctx context.Context) error
}
