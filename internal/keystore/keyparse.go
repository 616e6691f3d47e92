package keystore

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
)

// KeyFormat tags the recognized serialization of a decrypted private key.
type KeyFormat string

const (
	// FormatHex32 is a hex-encoded 32-byte scalar or seed.
	FormatHex32 KeyFormat = "hex32"

	// FormatHex64 is a hex-encoded 64-byte expanded keypair (seed ∥ public).
	FormatHex64 KeyFormat = "hex64"

	// FormatWIF is a Base58Check wallet import format key for UTXO chains.
	FormatWIF KeyFormat = "wif"

	// FormatBase58Seed is a base58-encoded 32- or 64-byte key.
	FormatBase58Seed KeyFormat = "base58"
)

// ParsedKey is the tagged result of ParsePrivateKey.
type ParsedKey struct {
	Format KeyFormat
	Bytes  []byte
}

// Scrub zeroes the decoded key bytes. The copy must not outlive the signer
// key constructed from it; callers scrub as soon as that key exists.
func (p *ParsedKey) Scrub() {
	for i := range p.Bytes {
		p.Bytes[i] = 0
	}
}

// ParsePrivateKey identifies the serialization of decrypted key material by
// attempting each known encoding in a fixed priority order. It returns a
// tagged result rather than guessing by catch-and-retry; unrecognized input
// is a data integrity failure, never silently passed through to a signer.
func ParsePrivateKey(raw []byte) (*ParsedKey, error) {
	s := string(raw)

	if decoded, err := hex.DecodeString(stripHexPrefix(s)); err == nil {
		switch len(decoded) {
		case 32:
			return &ParsedKey{Format: FormatHex32, Bytes: decoded}, nil
		case 64:
			return &ParsedKey{Format: FormatHex64, Bytes: decoded}, nil
		}
	}

	if _, err := btcutil.DecodeWIF(s); err == nil {
		return &ParsedKey{Format: FormatWIF, Bytes: raw}, nil
	}

	if decoded := base58.Decode(s); len(decoded) == 32 || len(decoded) == 64 {
		return &ParsedKey{Format: FormatBase58Seed, Bytes: decoded}, nil
	}

	return nil, apperror.New(apperror.KindDecryptionFailed,
		"unrecognized private key encoding (%d bytes)", len(raw))
}

func stripHexPrefix(s string) string {
	if len(s) > 2 && s[:2] == "0x" {
		return s[2:]
	}
	return s
}
