package utxorpc

import (
	"context"
	"strconv"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/provider"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
	"github.com/dwarvesf/payment-forwarder/internal/utxorpc/esplora"
)

// UtxoRpc builds, signs and broadcasts transactions for unspent-output
// chains. One instance per chain; chain quirks live in the policy constants
// and the injected address codec, not in subtypes.
type UtxoRpc struct {
	policy  provider.ChainPolicy
	esplora esplora.IEsplora
	codec   AddressCodec
	logger  *logger.Logger
}

func New(policy provider.ChainPolicy, esplora esplora.IEsplora, codec AddressCodec, logger *logger.Logger) IUtxoRpc {
	return &UtxoRpc{
		policy:  policy,
		esplora: esplora,
		codec:   codec,
		logger:  logger,
	}
}

func (b *UtxoRpc) Balance(ctx context.Context, address string) (*model.Web3BigInt, error) {
	legacy, err := b.codec.ToLegacy(address)
	if err != nil {
		return nil, err
	}

	sats, err := b.esplora.GetBalance(ctx, legacy)
	if err != nil {
		return nil, err
	}

	return &model.Web3BigInt{
		Value:   strconv.FormatInt(sats, 10),
		Decimal: b.policy.Decimals,
	}, nil
}

func (b *UtxoRpc) ConfirmationsRequired() int {
	return b.policy.Confirmations
}

func (b *UtxoRpc) Transfer(ctx context.Context, from, to string, amount *model.Web3BigInt, key *keystore.Material) (string, error) {
	amt, ok := amount.Int64()
	if !ok || amt <= 0 {
		return "", apperror.New(apperror.KindInvalidAmount, "invalid transfer amount %q", amount.Value)
	}

	return b.send(ctx, from, []plannedOutput{{address: to, value: amt}}, key, false)
}

func (b *UtxoRpc) TransferSplit(ctx context.Context, from string, instructions []model.TransferInstruction, key *keystore.Material) (string, error) {
	outputs := make([]plannedOutput, 0, len(instructions))
	for _, ins := range instructions {
		amt, ok := ins.Amount.Int64()
		if !ok || amt < 0 {
			return "", apperror.New(apperror.KindInvalidAmount, "invalid transfer amount %q", ins.Amount.Value)
		}
		outputs = append(outputs, plannedOutput{address: ins.To, value: amt})
	}
	if len(outputs) == 0 {
		return "", apperror.New(apperror.KindInvalidAmount, "no transfer instructions")
	}

	return b.send(ctx, from, outputs, key, true)
}

// send sweeps the one-time address into the requested outputs. In split mode
// the requested amounts are scaled down to what the balance can afford after
// the fee; in single mode an unaffordable amount is an error.
func (b *UtxoRpc) send(ctx context.Context, from string, requests []plannedOutput, key *keystore.Material, splitMode bool) (string, error) {
	legacyFrom, err := b.codec.ToLegacy(from)
	if err != nil {
		return "", err
	}

	legacyRequests := make([]plannedOutput, len(requests))
	for i, r := range requests {
		legacyTo, err := b.codec.ToLegacy(r.address)
		if err != nil {
			return "", err
		}
		legacyRequests[i] = plannedOutput{address: legacyTo, value: r.value}
	}

	// Fetched fresh per attempt; UTXOs can be spent between attempts.
	utxos, err := b.getConfirmedUTXOs(ctx, legacyFrom)
	if err != nil {
		return "", err
	}
	if len(utxos) == 0 {
		return "", apperror.New(apperror.KindNoSpendableFunds, "no spendable outputs on %s", from)
	}

	var available int64
	for _, u := range utxos {
		available += u.Value
	}

	feeRates, err := b.esplora.EstimateFees(ctx)
	if err != nil {
		return "", err
	}

	// All confirmed UTXOs are consumed (the address is abandoned after the
	// forward), with one extra output reserved for change.
	fee, err := b.calculateTxFee(feeRates, len(utxos), len(legacyRequests)+1)
	if err != nil {
		return "", err
	}

	var requested int64
	for _, r := range legacyRequests {
		requested += r.value
	}

	if requested+fee > available {
		if !splitMode {
			return "", apperror.New(apperror.KindInsufficientBalance,
				"insufficient funds: have %d, need %d", available, requested+fee)
		}

		affordable := available - fee
		if affordable <= 0 {
			return "", apperror.New(apperror.KindInsufficientBalance,
				"balance %d cannot cover fee %d", available, fee)
		}

		amounts := make([]int64, len(legacyRequests))
		for i, r := range legacyRequests {
			amounts[i] = r.value
		}
		scaled := scaleToAfford(amounts, affordable)
		for i := range legacyRequests {
			legacyRequests[i].value = scaled[i]
		}

		b.logger.Info("[send] scaled split outputs to affordable balance", map[string]string{
			"requested":  strconv.FormatInt(requested, 10),
			"affordable": strconv.FormatInt(affordable, 10),
		})
	}

	outputs := dropDust(legacyRequests, b.policy.DustThreshold)
	if len(outputs) == 0 {
		return "", apperror.New(apperror.KindInvalidAmount,
			"every output is below the dust threshold %d", b.policy.DustThreshold)
	}

	var outputsTotal int64
	for _, o := range outputs {
		outputsTotal += o.value
	}

	// Leftover above dust goes back to the one-time address; below dust it
	// is burned into the fee rather than creating an unspendable output.
	if change := available - outputsTotal - fee; change > b.policy.DustThreshold {
		outputs = append(outputs, plannedOutput{address: legacyFrom, value: change})
	}

	tx, err := b.prepareTx(utxos, outputs)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindInternal, "prepare transaction")
	}

	privKey, err := materializePrivKey(key)
	if err != nil {
		return "", err
	}

	if err := b.sign(tx, privKey, legacyFrom); err != nil {
		return "", apperror.Wrap(err, apperror.KindInternal, "sign transaction")
	}

	txID, err := b.broadcast(ctx, tx)
	if err != nil {
		return "", err
	}

	b.logger.Info("[send] transaction broadcast", map[string]string{
		"chain": string(b.policy.Chain),
		"tx_id": txID,
	})

	return txID, nil
}
