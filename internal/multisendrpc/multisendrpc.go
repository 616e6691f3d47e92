package multisendrpc

import (
	"context"
	"encoding/base64"
	"strconv"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/provider"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

// MultiSendRpc builds, signs and submits transactions for chains with a
// native multi-transfer instruction and a fixed protocol fee per
// transaction. One-time addresses are abandoned after forwarding, so no
// rent-exempt reserve is preserved beyond the fee itself.
type MultiSendRpc struct {
	policy provider.ChainPolicy
	client IRpcClient
	logger *logger.Logger
}

func New(policy provider.ChainPolicy, client IRpcClient, logger *logger.Logger) IMultiSendRpc {
	return &MultiSendRpc{
		policy: policy,
		client: client,
		logger: logger,
	}
}

func (b *MultiSendRpc) Balance(ctx context.Context, address string) (*model.Web3BigInt, error) {
	lamports, err := b.client.GetBalance(ctx, address)
	if err != nil {
		return nil, err
	}

	return &model.Web3BigInt{
		Value:   strconv.FormatUint(lamports, 10),
		Decimal: b.policy.Decimals,
	}, nil
}

func (b *MultiSendRpc) ConfirmationsRequired() int {
	return b.policy.Confirmations
}

func (b *MultiSendRpc) Transfer(ctx context.Context, from, to string, amount *model.Web3BigInt, key *keystore.Material) (string, error) {
	kp, err := b.keypairFor(key, from)
	if err != nil {
		return "", err
	}

	maxSendable, err := b.maxSendable(ctx, from)
	if err != nil {
		return "", err
	}

	requested, ok := amount.Int64()
	if !ok || requested <= 0 {
		return "", apperror.New(apperror.KindInvalidAmount, "invalid transfer amount %q", amount.Value)
	}

	lamports := uint64(requested)
	if lamports > maxSendable {
		lamports = maxSendable
	}

	return b.send(ctx, kp, []bundledTransfer{{to: to, lamports: lamports}})
}

func (b *MultiSendRpc) TransferSplit(ctx context.Context, from string, instructions []model.TransferInstruction, key *keystore.Material) (string, error) {
	if len(instructions) == 0 {
		return "", apperror.New(apperror.KindInvalidAmount, "no transfer instructions")
	}

	kp, err := b.keypairFor(key, from)
	if err != nil {
		return "", err
	}

	maxSendable, err := b.maxSendable(ctx, from)
	if err != nil {
		return "", err
	}

	amounts := make([]uint64, len(instructions))
	for i, ins := range instructions {
		amt, ok := ins.Amount.Int64()
		if !ok || amt < 0 {
			return "", apperror.New(apperror.KindInvalidAmount, "invalid transfer amount %q", ins.Amount.Value)
		}
		amounts[i] = uint64(amt)
	}

	amounts = ScaleToMax(amounts, maxSendable)

	transfers := make([]bundledTransfer, 0, len(instructions))
	for i, ins := range instructions {
		if amounts[i] == 0 {
			continue
		}
		transfers = append(transfers, bundledTransfer{to: ins.To, lamports: amounts[i]})
	}
	if len(transfers) == 0 {
		return "", apperror.New(apperror.KindInsufficientBalance, "nothing sendable after scaling")
	}

	return b.send(ctx, kp, transfers)
}

// maxSendable is the balance minus the fixed per-transaction fee. Unlike
// normal account usage on this family, no reserve is kept: the address is
// never used again.
func (b *MultiSendRpc) maxSendable(ctx context.Context, address string) (uint64, error) {
	balance, err := b.client.GetBalance(ctx, address)
	if err != nil {
		return 0, err
	}

	fee := uint64(b.policy.FixedFee)
	if balance <= fee {
		return 0, apperror.New(apperror.KindInsufficientBalance,
			"balance %d cannot cover the fixed fee %d", balance, fee)
	}

	return balance - fee, nil
}

func (b *MultiSendRpc) send(ctx context.Context, kp *Keypair, transfers []bundledTransfer) (string, error) {
	blockhash, err := b.client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	message, err := buildTransferMessage(kp.Address(), transfers, blockhash)
	if err != nil {
		return "", err
	}

	tx := serializeTransaction(kp.Sign(message), message)

	signature, err := b.client.SendTransaction(ctx, base64.StdEncoding.EncodeToString(tx))
	if err != nil {
		return "", err
	}

	// No undo after submission; await confirmation before reporting.
	if err := b.client.ConfirmTransaction(ctx, signature); err != nil {
		return "", err
	}

	b.logger.Info("[send] bundled transaction confirmed", map[string]string{
		"chain":     string(b.policy.Chain),
		"signature": signature,
		"transfers": strconv.Itoa(len(transfers)),
	})

	return signature, nil
}

func (b *MultiSendRpc) keypairFor(key *keystore.Material, from string) (*Keypair, error) {
	kp, err := DeriveKeypair(key)
	if err != nil {
		return nil, err
	}

	if from != "" && kp.Address() != from {
		return nil, apperror.New(apperror.KindDecryptionFailed, "key does not control address %s", from)
	}

	return kp, nil
}
