package multisendrpc

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
)

// systemProgramID is the native program handling plain lamport transfers
// (32 zero bytes).
const systemProgramID = "11111111111111111111111111111111"

// systemTransferIndex selects the transfer instruction within the system
// program.
const systemTransferIndex = 2

type bundledTransfer struct {
	to       string
	lamports uint64
}

// buildTransferMessage serializes a legacy message carrying one transfer
// instruction per recipient, all funded by the one-time address and anchored
// to the most recent network checkpoint.
func buildTransferMessage(from string, transfers []bundledTransfer, recentBlockhash string) ([]byte, error) {
	fromKey := base58.Decode(from)
	if len(fromKey) != 32 {
		return nil, apperror.New(apperror.KindInvalidAmount, "invalid funding address %q", from)
	}

	blockhash := base58.Decode(recentBlockhash)
	if len(blockhash) != 32 {
		return nil, apperror.New(apperror.KindNetworkError, "invalid recent blockhash %q", recentBlockhash)
	}

	// Account table: funder first (signer, writable), then each distinct
	// destination (writable), then the system program (readonly).
	accountIndex := map[string]byte{from: 0}
	accounts := [][]byte{fromKey}
	for _, t := range transfers {
		if _, ok := accountIndex[t.to]; ok {
			continue
		}
		destKey := base58.Decode(t.to)
		if len(destKey) != 32 {
			return nil, apperror.New(apperror.KindInvalidAmount, "invalid destination address %q", t.to)
		}
		accountIndex[t.to] = byte(len(accounts))
		accounts = append(accounts, destKey)
	}
	programIndex := byte(len(accounts))
	accounts = append(accounts, base58.Decode(systemProgramID))

	var msg []byte

	// Header: one required signature, no readonly signed accounts, one
	// readonly unsigned account (the program).
	msg = append(msg, 1, 0, 1)

	msg = appendCompactU16(msg, len(accounts))
	for _, acc := range accounts {
		msg = append(msg, acc...)
	}

	msg = append(msg, blockhash...)

	msg = appendCompactU16(msg, len(transfers))
	for _, t := range transfers {
		msg = append(msg, programIndex)

		msg = appendCompactU16(msg, 2)
		msg = append(msg, 0, accountIndex[t.to])

		data := make([]byte, 12)
		binary.LittleEndian.PutUint32(data[0:4], systemTransferIndex)
		binary.LittleEndian.PutUint64(data[4:12], t.lamports)
		msg = appendCompactU16(msg, len(data))
		msg = append(msg, data...)
	}

	return msg, nil
}

// serializeTransaction prepends the signature list to the message.
func serializeTransaction(signature, message []byte) []byte {
	tx := appendCompactU16(nil, 1)
	tx = append(tx, signature...)
	return append(tx, message...)
}

// appendCompactU16 writes the chain's variable-length u16 encoding: 7 bits
// per byte, high bit as continuation flag.
func appendCompactU16(buf []byte, v int) []byte {
	for {
		if v < 0x80 {
			return append(buf, byte(v))
		}
		buf = append(buf, byte(v&0x7f)|0x80)
		v >>= 7
	}
}
