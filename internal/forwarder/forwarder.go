package forwarder

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/feesplit"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/monitoring"
	"github.com/dwarvesf/payment-forwarder/internal/provider"
	"github.com/dwarvesf/payment-forwarder/internal/store"
	pgstore "github.com/dwarvesf/payment-forwarder/internal/store/postgres"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
	"github.com/dwarvesf/payment-forwarder/internal/utils/webhook"
)

const (
	eventForwarded        = "payment.forwarded"
	eventForwardingFailed = "payment.forwarding_failed"
)

// Forwarder orchestrates the confirmed -> forwarding -> forwarded /
// forwarding_failed lifecycle. It owns the status transitions and the fee
// split; moving funds on chain is delegated to the per-chain builders behind
// the registry.
type Forwarder struct {
	db              *gorm.DB
	store           *store.Store
	registry        *provider.Registry
	keys            keystore.IAccessor
	calculator      *feesplit.Calculator
	notifier        webhook.INotifier
	metrics         *monitoring.ForwardingMetrics
	platformWallets map[model.Chain]string
	policies        map[model.Chain]provider.ChainPolicy
	logger          *logger.Logger
	inTx            func(fn func(tx *gorm.DB) error) error
}

func New(
	db *gorm.DB,
	store *store.Store,
	registry *provider.Registry,
	keys keystore.IAccessor,
	calculator *feesplit.Calculator,
	notifier webhook.INotifier,
	metrics *monitoring.ForwardingMetrics,
	platformWallets map[model.Chain]string,
	policies map[model.Chain]provider.ChainPolicy,
	logger *logger.Logger,
) IForwarder {
	return &Forwarder{
		db:              db,
		store:           store,
		registry:        registry,
		keys:            keys,
		calculator:      calculator,
		notifier:        notifier,
		metrics:         metrics,
		platformWallets: platformWallets,
		policies:        policies,
		logger:          logger,
		inTx: func(fn func(tx *gorm.DB) error) error {
			return pgstore.DoInTx(db, fn)
		},
	}
}

func (f *Forwarder) Forward(ctx context.Context, paymentID uint) *model.ForwardingOutcome {
	return f.forward(ctx, paymentID, []model.PaymentStatus{model.PaymentStatusConfirmed})
}

func (f *Forwarder) Retry(ctx context.Context, paymentID uint) *model.ForwardingOutcome {
	return f.forward(ctx, paymentID, []model.PaymentStatus{
		model.PaymentStatusConfirmed,
		model.PaymentStatusForwardingFailed,
	})
}

func (f *Forwarder) forward(ctx context.Context, paymentID uint, from []model.PaymentStatus) *model.ForwardingOutcome {
	p, err := f.store.Payment.GetByID(f.db, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return f.failedOutcome("", apperror.New(apperror.KindInvalidState, "payment %d not found", paymentID))
		}
		return f.failedOutcome("", apperror.Wrap(err, apperror.KindInternal, "load payment %d", paymentID))
	}

	if p.Status == model.PaymentStatusForwarded {
		return f.failedOutcome(p.PaymentCode,
			apperror.New(apperror.KindAlreadyForwarded, "payment %s already forwarded", p.PaymentCode))
	}
	if !statusIn(p.Status, from) {
		return f.failedOutcome(p.PaymentCode,
			apperror.New(apperror.KindInvalidState, "payment %s is %s, cannot forward", p.PaymentCode, p.Status))
	}

	// Claim the payment. Zero rows means another worker won the race; this
	// attempt must not touch the funds.
	claimed, err := f.store.Payment.TransitionStatus(f.db, p.ID, from, model.PaymentStatusForwarding)
	if err != nil {
		return f.failedOutcome(p.PaymentCode, apperror.Wrap(err, apperror.KindInternal, "claim payment %s", p.PaymentCode))
	}
	if claimed == 0 {
		return f.failedOutcome(p.PaymentCode,
			apperror.New(apperror.KindAlreadyForwarded, "payment %s claimed by a concurrent attempt", p.PaymentCode))
	}

	outcome := f.execute(ctx, p)
	f.metrics.RecordAttempt(string(p.Chain), outcomeLabel(outcome))

	if outcome.Success {
		f.notify(ctx, p.PaymentCode, eventForwarded, outcome)
	} else {
		f.recordFailure(p, outcome)
		f.notify(ctx, p.PaymentCode, eventForwardingFailed, outcome)
	}

	return outcome
}

// execute runs one claimed forwarding attempt end to end: split, decrypt,
// send, persist. The payment is already in forwarding.
func (f *Forwarder) execute(ctx context.Context, p *model.Payment) *model.ForwardingOutcome {
	split, err := f.calculator.SplitString(p.Amount)
	if err != nil {
		return f.failedOutcome(p.PaymentCode, err)
	}

	prov, err := f.registry.Get(p.Chain)
	if err != nil {
		return f.failedOutcome(p.PaymentCode, err)
	}

	policy, ok := f.policies[p.Chain]
	if !ok {
		return f.failedOutcome(p.PaymentCode,
			apperror.New(apperror.KindUnsupportedChain, "no policy for chain %q", p.Chain))
	}

	platformWallet, ok := f.platformWallets[p.Chain]
	if !ok || platformWallet == "" {
		return f.failedOutcome(p.PaymentCode,
			apperror.New(apperror.KindInternal, "no platform wallet configured for chain %q", p.Chain))
	}

	instructions := []model.TransferInstruction{
		{To: p.MerchantAddress, Amount: model.FromDecimal(split.MerchantAmount, policy.Decimals)},
		{To: platformWallet, Amount: model.FromDecimal(split.PlatformFee, policy.Decimals)},
	}

	var merchantTx, platformTx string
	err = f.keys.WithDecryptedKey(p.ID, func(key *keystore.Material, addr *model.PaymentAddress) error {
		merchantTx, platformTx = "", ""

		if st, ok := prov.(provider.ISplitTransferrer); ok {
			txID, err := st.TransferSplit(ctx, addr.Address, instructions, key)
			if err != nil {
				return err
			}
			merchantTx, platformTx = txID, txID
			return nil
		}

		if seq, ok := prov.(provider.ISequentialTransferrer); ok {
			txIDs, err := seq.TransferSequential(ctx, addr.Address, instructions, key)
			// A partial result still carries the merchant hash; keep it so
			// the failure record shows funds already moved.
			if len(txIDs) > 0 {
				merchantTx = txIDs[0]
			}
			if len(txIDs) > 1 {
				platformTx = txIDs[1]
			}
			return err
		}

		// Merchant leg first so a mid-sequence failure never strands the
		// merchant's share while the fee got paid.
		merchantTx, err = prov.Transfer(ctx, addr.Address, p.MerchantAddress, instructions[0].Amount, key)
		if err != nil {
			return err
		}

		platformTx, err = prov.Transfer(ctx, addr.Address, platformWallet, instructions[1].Amount, key)
		return err
	})
	if err != nil {
		outcome := f.failedOutcome(p.PaymentCode, err)
		outcome.MerchantTxHash = merchantTx
		outcome.PlatformTxHash = platformTx
		return outcome
	}

	if err := f.persistForwarded(p, split, merchantTx, platformTx); err != nil {
		f.logger.Error("[execute][persistForwarded] transfers confirmed but status update failed", map[string]string{
			"payment_code":    p.PaymentCode,
			"merchant_txhash": merchantTx,
			"platform_txhash": platformTx,
			"error":           err.Error(),
		})
		outcome := f.failedOutcome(p.PaymentCode, apperror.Wrap(err, apperror.KindInternal, "persist forwarded payment"))
		outcome.MerchantTxHash = merchantTx
		outcome.PlatformTxHash = platformTx
		return outcome
	}

	f.logger.Info("[execute] payment forwarded", map[string]string{
		"payment_code":    p.PaymentCode,
		"chain":           string(p.Chain),
		"merchant_amount": split.MerchantAmount.String(),
		"platform_fee":    split.PlatformFee.String(),
		"merchant_txhash": merchantTx,
		"platform_txhash": platformTx,
	})

	return &model.ForwardingOutcome{
		Success:        true,
		PaymentCode:    p.PaymentCode,
		MerchantTxHash: merchantTx,
		PlatformTxHash: platformTx,
		MerchantAmount: split.MerchantAmount.String(),
		PlatformFee:    split.PlatformFee.String(),
	}
}

func (f *Forwarder) persistForwarded(p *model.Payment, split *model.SplitResult, merchantTx, platformTx string) error {
	return f.inTx(func(tx *gorm.DB) error {
		now := time.Now()
		p.Status = model.PaymentStatusForwarded
		p.MerchantAmount = split.MerchantAmount.String()
		p.PlatformFee = split.PlatformFee.String()
		p.MerchantTxHash = merchantTx
		p.PlatformTxHash = platformTx
		p.FailureReason = ""
		p.ForwardedAt = &now

		if err := f.store.Payment.Save(tx, p); err != nil {
			return err
		}

		hashes := merchantTx
		if platformTx != "" && platformTx != merchantTx {
			hashes = merchantTx + "," + platformTx
		}
		return f.store.PaymentAddress.MarkUsed(tx, p.ID, hashes)
	})
}

func (f *Forwarder) recordFailure(p *model.Payment, outcome *model.ForwardingOutcome) {
	p.Status = model.PaymentStatusForwardingFailed
	p.FailureReason = outcome.Error
	p.MerchantTxHash = outcome.MerchantTxHash
	p.PlatformTxHash = outcome.PlatformTxHash

	if err := f.store.Payment.Save(f.db, p); err != nil {
		f.logger.Error("[recordFailure][store.Payment.Save]", map[string]string{
			"payment_code": p.PaymentCode,
			"error":        err.Error(),
		})
	}
}

func (f *Forwarder) BatchForward(ctx context.Context, limit int) *model.BatchForwardResult {
	result := &model.BatchForwardResult{}

	payments, err := f.store.Payment.FindByStatus(f.db, model.PaymentStatusConfirmed, limit)
	if err != nil {
		f.logger.Error("[BatchForward][store.Payment.FindByStatus]", map[string]string{
			"error": err.Error(),
		})
		return result
	}

	for i := range payments {
		outcome := f.Forward(ctx, payments[i].ID)
		result.Processed++
		if outcome.Success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, *outcome)
	}

	f.metrics.RecordBatch(result.Processed)
	f.logger.Info("[BatchForward] batch finished", map[string]string{
		"processed":  strconv.Itoa(result.Processed),
		"successful": strconv.Itoa(result.Successful),
		"failed":     strconv.Itoa(result.Failed),
	})

	return result
}

func (f *Forwarder) ConfirmPending(ctx context.Context) error {
	payments, err := f.store.Payment.FindByStatus(f.db, model.PaymentStatusPending, 0)
	if err != nil {
		return apperror.Wrap(err, apperror.KindInternal, "list pending payments")
	}

	for i := range payments {
		p := &payments[i]
		if err := f.confirmOne(ctx, p); err != nil {
			f.logger.Error("[ConfirmPending][confirmOne]", map[string]string{
				"payment_code": p.PaymentCode,
				"error":        err.Error(),
			})
		}
	}

	return nil
}

func (f *Forwarder) confirmOne(ctx context.Context, p *model.Payment) error {
	prov, err := f.registry.Get(p.Chain)
	if err != nil {
		return err
	}

	policy, ok := f.policies[p.Chain]
	if !ok {
		return apperror.New(apperror.KindUnsupportedChain, "no policy for chain %q", p.Chain)
	}

	addr, err := f.store.PaymentAddress.GetByPaymentID(f.db, p.ID)
	if err != nil {
		return apperror.Wrap(err, apperror.KindInternal, "load address for payment %s", p.PaymentCode)
	}

	balance, err := prov.Balance(ctx, addr.Address)
	if err != nil {
		return err
	}

	expected, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return apperror.Wrap(err, apperror.KindInvalidAmount, "payment %s amount %q", p.PaymentCode, p.Amount)
	}

	if balance.Cmp(model.FromDecimal(expected, policy.Decimals)) < 0 {
		return nil // Not fully funded yet; next run will check again.
	}

	rows, err := f.store.Payment.TransitionStatus(f.db, p.ID,
		[]model.PaymentStatus{model.PaymentStatusPending}, model.PaymentStatusConfirmed)
	if err != nil {
		return apperror.Wrap(err, apperror.KindInternal, "confirm payment %s", p.PaymentCode)
	}
	if rows > 0 {
		f.logger.Info("[confirmOne] payment confirmed", map[string]string{
			"payment_code":  p.PaymentCode,
			"chain":         string(p.Chain),
			"balance":       balance.Value,
			"confirmations": strconv.Itoa(prov.ConfirmationsRequired()),
		})
	}

	return nil
}

func (f *Forwarder) notify(ctx context.Context, paymentCode, event string, outcome *model.ForwardingOutcome) {
	if err := f.notifier.Notify(ctx, paymentCode, event, outcome); err != nil {
		f.logger.Error("[notify][notifier.Notify]", map[string]string{
			"payment_code": paymentCode,
			"event":        event,
			"error":        err.Error(),
		})
	}
}

func (f *Forwarder) failedOutcome(paymentCode string, err error) *model.ForwardingOutcome {
	return &model.ForwardingOutcome{
		Success:     false,
		PaymentCode: paymentCode,
		Error:       err.Error(),
		ErrorKind:   string(apperror.KindOf(err)),
	}
}

func outcomeLabel(o *model.ForwardingOutcome) string {
	if o.Success {
		return "success"
	}
	if o.ErrorKind != "" {
		return o.ErrorKind
	}
	return "failure"
}

func statusIn(status model.PaymentStatus, set []model.PaymentStatus) bool {
	for _, s := range set {
		if status == s {
			return true
		}
	}
	return false
}
