package utxorpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
	"github.com/dwarvesf/payment-forwarder/internal/utxorpc/esplora"
)

const (
	p2pkhInputSize  = 148 // P2PKH input size
	p2pkhOutputSize = 34  // P2PKH output size
	txOverhead      = 10  // Transaction overhead
)

// calculateTxSize estimates the total transaction size in bytes
func calculateTxSize(numInputs, numOutputs int) int {
	return txOverhead + (numInputs * p2pkhInputSize) + (numOutputs * p2pkhOutputSize)
}

// calculateTxFee estimates the transaction fee based on current network conditions
func (b *UtxoRpc) calculateTxFee(feeRates map[string]float64, numInputs, numOutputs int) (int64, error) {
	target := fmt.Sprintf("%d", b.policy.FeeTargetBlocks)
	feeRate, ok := feeRates[target]
	if !ok {
		return 0, apperror.New(apperror.KindNetworkError, "no fee rate available for target %s blocks", target)
	}

	txSize := calculateTxSize(numInputs, numOutputs)

	return int64(float64(txSize) * feeRate), nil
}

// scaleToAfford adjusts requested amounts so their sum never exceeds the
// spendable value. Every amount is scaled by affordable/total using integer
// floor division, and the rounding remainder goes to the first recipient so
// the sum equals exactly the affordable value.
func scaleToAfford(amounts []int64, affordable int64) []int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	if total <= affordable || total == 0 {
		return amounts
	}

	// a*affordable exceeds int64 for large payments; the ratio arithmetic
	// stays in big.Int like the other chain families.
	totalBig := big.NewInt(total)
	affordableBig := big.NewInt(affordable)

	scaled := make([]int64, len(amounts))
	var sum int64
	for i, a := range amounts {
		s := new(big.Int).Mul(big.NewInt(a), affordableBig)
		s.Quo(s, totalBig)
		scaled[i] = s.Int64()
		sum += scaled[i]
	}
	scaled[0] += affordable - sum

	return scaled
}

type plannedOutput struct {
	address string
	value   int64
}

// dropDust removes outputs below the dust threshold; they are omitted, never
// rounded up.
func dropDust(outputs []plannedOutput, dustThreshold int64) []plannedOutput {
	kept := outputs[:0]
	for _, o := range outputs {
		if o.value >= dustThreshold {
			kept = append(kept, o)
		}
	}
	return kept
}

func (b *UtxoRpc) getConfirmedUTXOs(ctx context.Context, address string) ([]esplora.UTXO, error) {
	utxos, err := b.esplora.GetUTXOs(ctx, address)
	if err != nil {
		return nil, err
	}

	// Filter confirmed UTXOs and sort by value in descending order
	var confirmedUTXOs []esplora.UTXO
	for _, utxo := range utxos {
		if utxo.Status.Confirmed {
			confirmedUTXOs = append(confirmedUTXOs, utxo)
		}
	}
	sort.Slice(confirmedUTXOs, func(i, j int) bool {
		return confirmedUTXOs[i].Value > confirmedUTXOs[j].Value
	})

	return confirmedUTXOs, nil
}

// prepareTxInputs creates and returns transaction inputs from UTXOs
func (b *UtxoRpc) prepareTxInputs(utxos []esplora.UTXO) ([]*wire.TxIn, error) {
	var inputs []*wire.TxIn

	for _, utxo := range utxos {
		hash, err := chainhash.NewHashFromStr(utxo.TxID)
		if err != nil {
			return nil, fmt.Errorf("failed to create hash: %v", err)
		}
		input := wire.NewTxIn(wire.NewOutPoint(hash, utxo.Vout), nil, nil)
		inputs = append(inputs, input)
	}

	return inputs, nil
}

// prepareTx assembles inputs and the planned outputs into an unsigned
// transaction. Output addresses are in legacy form.
func (b *UtxoRpc) prepareTx(utxos []esplora.UTXO, outputs []plannedOutput) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(2)

	inputs, err := b.prepareTxInputs(utxos)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare inputs: %v", err)
	}
	for _, input := range inputs {
		tx.AddTxIn(input)
	}

	for _, out := range outputs {
		addr, err := btcutil.DecodeAddress(out.address, &chaincfg.MainNetParams)
		if err != nil {
			return nil, fmt.Errorf("failed to decode output address: %v", err)
		}
		pkScript, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create output script: %v", err)
		}
		tx.AddTxOut(wire.NewTxOut(out.value, pkScript))
	}

	return tx, nil
}

// sign signs every input with the one-time private key
func (b *UtxoRpc) sign(tx *wire.MsgTx, privKey *secp256k1.PrivateKey, fromLegacy string) error {
	fromAddr, err := btcutil.DecodeAddress(fromLegacy, &chaincfg.MainNetParams)
	if err != nil {
		return fmt.Errorf("failed to decode sender address: %v", err)
	}
	prevOutScript, err := txscript.PayToAddrScript(fromAddr)
	if err != nil {
		return fmt.Errorf("failed to create sender output script: %v", err)
	}

	for i := range tx.TxIn {
		sigScript, err := txscript.SignatureScript(
			tx,
			i,
			prevOutScript,
			txscript.SigHashAll,
			privKey,
			true,
		)
		if err != nil {
			return fmt.Errorf("failed to sign transaction input %d: %v", i, err)
		}
		tx.TxIn[i].SignatureScript = sigScript
	}

	return nil
}

// broadcast serializes the signed transaction and submits it
func (b *UtxoRpc) broadcast(ctx context.Context, tx *wire.MsgTx) (string, error) {
	var signedTx bytes.Buffer
	tx.Serialize(&signedTx)
	txHex := hex.EncodeToString(signedTx.Bytes())

	txID, err := b.esplora.BroadcastTx(ctx, txHex)
	if err != nil {
		return "", err
	}

	return txID, nil
}

// materializePrivKey converts decrypted key material into the signer's key
// type. Raw 32-byte scalars are accepted alongside the chain's canonical WIF
// serialization; the tagged parse decides, not trial-and-error decoding.
func materializePrivKey(key *keystore.Material) (*secp256k1.PrivateKey, error) {
	parsed, err := keystore.ParsePrivateKey(key.Bytes())
	if err != nil {
		return nil, err
	}
	defer parsed.Scrub()

	switch parsed.Format {
	case keystore.FormatWIF:
		wif, err := btcutil.DecodeWIF(string(parsed.Bytes))
		if err != nil {
			return nil, apperror.Wrap(err, apperror.KindDecryptionFailed, "decode wif")
		}
		return wif.PrivKey, nil
	case keystore.FormatHex32, keystore.FormatBase58Seed:
		if len(parsed.Bytes) != 32 {
			return nil, apperror.New(apperror.KindDecryptionFailed, "expected 32-byte scalar, got %d bytes", len(parsed.Bytes))
		}
		return secp256k1.PrivKeyFromBytes(parsed.Bytes), nil
	default:
		return nil, apperror.New(apperror.KindDecryptionFailed, "key format %s not usable on a utxo chain", parsed.Format)
	}
}
