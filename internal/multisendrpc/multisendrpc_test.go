package multisendrpc

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/provider"
	"github.com/dwarvesf/payment-forwarder/internal/types/environments"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

type fakeRpcClient struct {
	balance   uint64
	signature string
	sentTxs   []string
}

func (c *fakeRpcClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	return c.balance, nil
}

func (c *fakeRpcClient) GetLatestBlockhash(ctx context.Context) (string, error) {
	hash := make([]byte, 32)
	hash[0] = 7
	return base58.Encode(hash), nil
}

func (c *fakeRpcClient) SendTransaction(ctx context.Context, txBase64 string) (string, error) {
	c.sentTxs = append(c.sentTxs, txBase64)
	return c.signature, nil
}

func (c *fakeRpcClient) ConfirmTransaction(ctx context.Context, signature string) error {
	return nil
}

func newTestBuilder(client *fakeRpcClient) (IMultiSendRpc, *Keypair, *keystore.Material) {
	policy := provider.DefaultPolicies()[model.ChainSOL]
	builder := New(policy, client, logger.New(environments.Test))

	seedHex := "0303030303030303030303030303030303030303030303030303030303030303"
	seed, _ := hex.DecodeString(seedHex)
	kp := &Keypair{priv: ed25519.NewKeyFromSeed(seed)}

	return builder, kp, keystore.NewMaterial([]byte(seedHex))
}

func TestMaxSendableExcludesFixedFee(t *testing.T) {
	client := &fakeRpcClient{balance: 1_000_000_000}
	builder, _, _ := newTestBuilder(client)

	max, err := builder.(*MultiSendRpc).maxSendable(context.Background(), "any")
	assert.NoError(t, err)
	assert.Equal(t, uint64(999_995_000), max)
}

func TestMaxSendableInsufficientForFee(t *testing.T) {
	tests := []struct {
		name    string
		balance uint64
	}{
		{name: "balance below fee", balance: 4999},
		{name: "balance equals fee", balance: 5000},
		{name: "empty address", balance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeRpcClient{balance: tt.balance}
			builder, _, _ := newTestBuilder(client)

			_, err := builder.(*MultiSendRpc).maxSendable(context.Background(), "any")
			assert.Error(t, err)
			assert.Equal(t, apperror.KindInsufficientBalance, apperror.KindOf(err))
		})
	}
}

func TestTransferClampsToMaxSendable(t *testing.T) {
	client := &fakeRpcClient{balance: 1_000_000_000, signature: "sig1"}
	builder, kp, material := newTestBuilder(client)

	dest := base58.Encode(append([]byte{9}, make([]byte, 31)...))

	// Request more than the balance allows; the send is clamped, not failed.
	txID, err := builder.Transfer(context.Background(), kp.Address(), dest,
		model.NewWeb3BigInt("2000000000", 9), material)

	assert.NoError(t, err)
	assert.Equal(t, "sig1", txID)
	assert.Len(t, client.sentTxs, 1)
}

func TestTransferRejectsForeignKey(t *testing.T) {
	client := &fakeRpcClient{balance: 1_000_000_000}
	builder, _, material := newTestBuilder(client)

	otherAddr := base58.Encode(append([]byte{8}, make([]byte, 31)...))

	_, err := builder.Transfer(context.Background(), otherAddr, otherAddr,
		model.NewWeb3BigInt("1000", 9), material)

	assert.Error(t, err)
	assert.Equal(t, apperror.KindDecryptionFailed, apperror.KindOf(err))
}

func TestTransferSplitScalesAndBundles(t *testing.T) {
	client := &fakeRpcClient{balance: 1_000_000_000, signature: "sig2"}
	builder, kp, material := newTestBuilder(client)

	merchant := base58.Encode(append([]byte{1}, make([]byte, 31)...))
	platform := base58.Encode(append([]byte{2}, make([]byte, 31)...))

	// Requested total exceeds maxSendable; both legs scale down and go out in
	// one transaction.
	txID, err := builder.TransferSplit(context.Background(), kp.Address(), []model.TransferInstruction{
		{To: merchant, Amount: model.NewWeb3BigInt("1990000000", 9)},
		{To: platform, Amount: model.NewWeb3BigInt("10000000", 9)},
	}, material)

	assert.NoError(t, err)
	assert.Equal(t, "sig2", txID)
	assert.Len(t, client.sentTxs, 1)
}

func TestTransferSplitRejectsEmptyInstructions(t *testing.T) {
	client := &fakeRpcClient{balance: 1_000_000_000}
	builder, kp, material := newTestBuilder(client)

	_, err := builder.TransferSplit(context.Background(), kp.Address(), nil, material)
	assert.Error(t, err)
	assert.Equal(t, apperror.KindInvalidAmount, apperror.KindOf(err))
}

func TestBuildTransferMessageLayout(t *testing.T) {
	funder := base58.Encode(append([]byte{1}, make([]byte, 31)...))
	dest := base58.Encode(append([]byte{2}, make([]byte, 31)...))
	blockhash := base58.Encode(append([]byte{3}, make([]byte, 31)...))

	msg, err := buildTransferMessage(funder, []bundledTransfer{
		{to: dest, lamports: 42},
	}, blockhash)
	assert.NoError(t, err)

	// Header + account count.
	assert.Equal(t, []byte{1, 0, 1, 3}, msg[:4])

	// Accounts: funder, destination, system program.
	assert.Equal(t, byte(1), msg[4])
	assert.Equal(t, byte(2), msg[4+32])
	assert.Equal(t, make([]byte, 32), msg[4+64:4+96])

	// Blockhash follows the account table.
	assert.Equal(t, byte(3), msg[4+96])
}
