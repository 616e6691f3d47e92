package accountrpc

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/provider"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

// AccountRpc builds, signs and submits transfers for balance-and-gas chains
// with per-account nonces.
type AccountRpc struct {
	policy provider.ChainPolicy
	client *ethclient.Client
	logger *logger.Logger
}

func New(policy provider.ChainPolicy, rpcEndpoint string, logger *logger.Logger) (IAccountRpc, error) {
	client, err := ethclient.Dial(rpcEndpoint)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindNetworkError, "dial rpc endpoint %s", rpcEndpoint)
	}

	return &AccountRpc{
		policy: policy,
		client: client,
		logger: logger,
	}, nil
}

func (b *AccountRpc) Balance(ctx context.Context, address string) (*model.Web3BigInt, error) {
	balance, err := b.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindNetworkError, "fetch balance of %s", address)
	}

	return &model.Web3BigInt{
		Value:   balance.String(),
		Decimal: b.policy.Decimals,
	}, nil
}

func (b *AccountRpc) ConfirmationsRequired() int {
	return b.policy.Confirmations
}

func (b *AccountRpc) Transfer(ctx context.Context, from, to string, amount *model.Web3BigInt, key *keystore.Material) (string, error) {
	privKey, fromAddr, err := b.materializeKey(key, from)
	if err != nil {
		return "", err
	}

	balance, err := b.client.BalanceAt(ctx, fromAddr, nil)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindNetworkError, "fetch balance")
	}

	gasPrice, err := b.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindNetworkError, "fetch gas price")
	}
	gasCost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(b.policy.GasLimit))

	sendAmount, err := b.clampToBalance(amount.BigInt(), balance, gasCost)
	if err != nil {
		return "", err
	}

	return b.submitTransfer(ctx, privKey, fromAddr, to, sendAmount, gasPrice)
}

func (b *AccountRpc) TransferSequential(ctx context.Context, from string, instructions []model.TransferInstruction, key *keystore.Material) ([]string, error) {
	if len(instructions) == 0 {
		return nil, apperror.New(apperror.KindInvalidAmount, "no transfer instructions")
	}

	privKey, fromAddr, err := b.materializeKey(key, from)
	if err != nil {
		return nil, err
	}

	balance, err := b.client.BalanceAt(ctx, fromAddr, nil)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindNetworkError, "fetch balance")
	}

	gasPrice, err := b.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindNetworkError, "fetch gas price")
	}
	gasCost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(b.policy.GasLimit))

	// Every leg pays its own gas; total cost scales with the number of
	// recipients.
	amounts := ScaleAmounts(instructions, balance, gasCost)
	if amounts == nil {
		return nil, apperror.New(apperror.KindInsufficientBalance,
			"balance %s cannot cover gas for %d transfers", balance.String(), len(instructions))
	}

	txIDs := make([]string, 0, len(instructions))
	for i, ins := range instructions {
		if amounts[i].Sign() <= 0 {
			continue
		}

		txID, err := b.submitTransfer(ctx, privKey, fromAddr, ins.To, amounts[i], gasPrice)
		if err != nil {
			// Earlier legs have already moved funds; report them alongside
			// the failure for reconciliation.
			return txIDs, err
		}
		txIDs = append(txIDs, txID)
	}

	if len(txIDs) == 0 {
		return nil, apperror.New(apperror.KindInsufficientBalance, "no transfer leg was affordable")
	}

	return txIDs, nil
}

// clampToBalance applies the send-max fallback: when amount + gas exceeds
// the balance, the send amount is reduced to whatever remains after gas
// rather than failing outright. Only a non-positive reduced amount is an
// error.
func (b *AccountRpc) clampToBalance(amount, balance, gasCost *big.Int) (*big.Int, error) {
	required := new(big.Int).Add(amount, gasCost)
	if required.Cmp(balance) <= 0 {
		return amount, nil
	}

	reduced := new(big.Int).Sub(balance, gasCost)
	if reduced.Sign() <= 0 {
		return nil, apperror.New(apperror.KindInsufficientBalance,
			"balance %s cannot cover gas cost %s", balance.String(), gasCost.String())
	}

	b.logger.Info("[clampToBalance] reduced send amount to fit balance", map[string]string{
		"chain":     string(b.policy.Chain),
		"requested": amount.String(),
		"reduced":   reduced.String(),
	})

	return reduced, nil
}

func (b *AccountRpc) submitTransfer(ctx context.Context, privKey *ecdsa.PrivateKey, fromAddr common.Address, to string, amount, gasPrice *big.Int) (string, error) {
	nonce, err := b.client.PendingNonceAt(ctx, fromAddr)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindNetworkError, "fetch nonce")
	}

	tx := types.NewTransaction(nonce, common.HexToAddress(to), amount, b.policy.GasLimit, gasPrice, nil)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(big.NewInt(b.policy.ChainID)), privKey)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindInternal, "sign transaction")
	}

	if err := b.client.SendTransaction(ctx, signedTx); err != nil {
		return "", apperror.Wrap(err, apperror.KindNetworkError, "submit transaction")
	}

	// Once broadcast there is no undo; wait for on-chain acceptance.
	receipt, err := bind.WaitMined(ctx, b.client, signedTx)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindNetworkError, "await transaction %s", signedTx.Hash().Hex())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", apperror.New(apperror.KindNetworkError, "transaction %s reverted", signedTx.Hash().Hex())
	}

	b.logger.Info("[submitTransfer] transaction mined", map[string]string{
		"chain": string(b.policy.Chain),
		"tx_id": signedTx.Hash().Hex(),
	})

	return signedTx.Hash().Hex(), nil
}

func (b *AccountRpc) materializeKey(key *keystore.Material, from string) (*ecdsa.PrivateKey, common.Address, error) {
	parsed, err := keystore.ParsePrivateKey(key.Bytes())
	if err != nil {
		return nil, common.Address{}, err
	}
	defer parsed.Scrub()

	if parsed.Format != keystore.FormatHex32 && parsed.Format != keystore.FormatBase58Seed {
		return nil, common.Address{}, apperror.New(apperror.KindDecryptionFailed,
			"key format %s not usable on an account chain", parsed.Format)
	}

	privKey, err := crypto.ToECDSA(parsed.Bytes)
	if err != nil {
		return nil, common.Address{}, apperror.Wrap(err, apperror.KindDecryptionFailed, "derive ecdsa key")
	}

	derived := crypto.PubkeyToAddress(privKey.PublicKey)
	if from != "" && derived != common.HexToAddress(from) {
		return nil, common.Address{}, apperror.New(apperror.KindDecryptionFailed,
			"key does not control address %s", from)
	}

	return privKey, derived, nil
}
