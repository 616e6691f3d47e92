package utxorpc

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
)

// AddressCodec converts between the address form callers present and the
// legacy Base58Check form the esplora-style endpoints understand. Both forms
// always resolve to the same underlying public key hash.
type AddressCodec interface {
	// ToLegacy normalizes any accepted address form to legacy Base58Check.
	ToLegacy(address string) (string, error)

	// FromLegacy re-encodes a legacy address into the chain's preferred
	// display form. FromLegacy(ToLegacy(x)) round-trips to x after case
	// normalization.
	FromLegacy(legacy string) (string, error)
}

// LegacyCodec is the identity codec for chains whose endpoints accept the
// address as-is.
type LegacyCodec struct {
	Params *chaincfg.Params
}

func (c *LegacyCodec) ToLegacy(address string) (string, error) {
	params := c.Params
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	if _, err := btcutil.DecodeAddress(address, params); err != nil {
		return "", apperror.Wrap(err, apperror.KindInvalidAmount, "invalid address %q", address)
	}
	return address, nil
}

func (c *LegacyCodec) FromLegacy(legacy string) (string, error) {
	return legacy, nil
}

const cashAddrCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// legacy P2PKH version byte shared by the dual-encoding chain's mainnet.
const legacyP2PKHVersion = 0x00

// CashAddrCodec converts between the checksummed bech32-like cashaddr
// encoding and legacy Base58Check. The balance/UTXO/broadcast endpoints only
// understand the legacy form.
type CashAddrCodec struct {
	Prefix string
}

func NewCashAddrCodec(prefix string) *CashAddrCodec {
	return &CashAddrCodec{Prefix: prefix}
}

func (c *CashAddrCodec) ToLegacy(address string) (string, error) {
	// Ordered parse: cashaddr first, legacy Base58Check second. An input
	// matching neither alphabet/checksum is rejected, never passed through.
	if hash, err := c.decodeCashAddr(address); err == nil {
		return base58.CheckEncode(hash, legacyP2PKHVersion), nil
	}

	hash, version, err := base58.CheckDecode(address)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindInvalidAmount, "address %q is neither cashaddr nor base58check", address)
	}
	if version != legacyP2PKHVersion || len(hash) != 20 {
		return "", apperror.New(apperror.KindInvalidAmount, "unsupported legacy address version %d", version)
	}

	return base58.CheckEncode(hash, legacyP2PKHVersion), nil
}

func (c *CashAddrCodec) FromLegacy(legacy string) (string, error) {
	hash, version, err := base58.CheckDecode(legacy)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindInvalidAmount, "invalid legacy address %q", legacy)
	}
	if version != legacyP2PKHVersion || len(hash) != 20 {
		return "", apperror.New(apperror.KindInvalidAmount, "unsupported legacy address version %d", version)
	}

	return c.encodeCashAddr(hash)
}

func (c *CashAddrCodec) encodeCashAddr(hash []byte) (string, error) {
	// Version byte 0: P2PKH type with a 160-bit hash.
	payload, err := bech32.ConvertBits(append([]byte{0x00}, hash...), 8, 5, true)
	if err != nil {
		return "", apperror.Wrap(err, apperror.KindInternal, "convert payload bits")
	}

	checksumInput := expandPrefix(c.Prefix)
	checksumInput = append(checksumInput, payload...)
	checksumInput = append(checksumInput, make([]byte, 8)...)

	mod := cashAddrPolyMod(checksumInput)

	var sb strings.Builder
	sb.WriteString(c.Prefix)
	sb.WriteByte(':')
	for _, v := range payload {
		sb.WriteByte(cashAddrCharset[v])
	}
	for i := 0; i < 8; i++ {
		sb.WriteByte(cashAddrCharset[(mod>>uint(5*(7-i)))&0x1f])
	}

	return sb.String(), nil
}

func (c *CashAddrCodec) decodeCashAddr(address string) ([]byte, error) {
	lower := strings.ToLower(address)
	if address != lower && address != strings.ToUpper(address) {
		return nil, apperror.New(apperror.KindInvalidAmount, "mixed-case address")
	}
	address = lower

	prefix := c.Prefix
	if idx := strings.IndexByte(address, ':'); idx >= 0 {
		prefix = address[:idx]
		address = address[idx+1:]
	}
	if prefix != c.Prefix {
		return nil, apperror.New(apperror.KindInvalidAmount, "unexpected address prefix %q", prefix)
	}

	values := make([]byte, 0, len(address))
	for _, r := range address {
		idx := strings.IndexRune(cashAddrCharset, r)
		if idx < 0 {
			return nil, apperror.New(apperror.KindInvalidAmount, "invalid character %q in address", r)
		}
		values = append(values, byte(idx))
	}
	if len(values) < 9 {
		return nil, apperror.New(apperror.KindInvalidAmount, "address payload too short")
	}

	checksumInput := expandPrefix(prefix)
	checksumInput = append(checksumInput, values...)
	if cashAddrPolyMod(checksumInput) != 0 {
		return nil, apperror.New(apperror.KindInvalidAmount, "address checksum mismatch")
	}

	data, err := bech32.ConvertBits(values[:len(values)-8], 5, 8, false)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInvalidAmount, "convert payload bits")
	}
	if len(data) != 21 || data[0] != 0x00 {
		return nil, apperror.New(apperror.KindInvalidAmount, "unsupported address type %d", data[0])
	}

	return data[1:], nil
}

func expandPrefix(prefix string) []byte {
	out := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		out = append(out, prefix[i]&0x1f)
	}
	return append(out, 0)
}

// cashAddrPolyMod is the 40-bit BCH checksum over 5-bit groups. A valid
// address (prefix + payload + checksum) reduces to zero.
func cashAddrPolyMod(v []byte) uint64 {
	c := uint64(1)
	for _, d := range v {
		c0 := byte(c >> 35)
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)

		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}

	return c ^ 1
}
