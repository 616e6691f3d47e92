package multisendrpc

import (
	"bytes"
	"crypto/ed25519"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/keystore"
)

// Keypair is the chain's ed25519 signing key: 32-byte seed ∥ 32-byte public
// key. Addresses are the base58-encoded public key.
type Keypair struct {
	priv ed25519.PrivateKey
}

// DeriveKeypair builds a full keypair from decrypted key material. A 64-byte
// input is taken as seed ∥ public key and cross-checked; a 32-byte input is
// expanded by deriving the public key from the seed. Derivation is
// deterministic: the same seed always yields the same keypair and address.
func DeriveKeypair(key *keystore.Material) (*Keypair, error) {
	parsed, err := keystore.ParsePrivateKey(key.Bytes())
	if err != nil {
		return nil, err
	}
	defer parsed.Scrub()

	switch len(parsed.Bytes) {
	case ed25519.PrivateKeySize:
		// The keypair keeps its own copy; parsed is scrubbed on return.
		priv := ed25519.PrivateKey(bytes.Clone(parsed.Bytes))
		derived := ed25519.NewKeyFromSeed(priv.Seed())
		if !bytes.Equal(derived, priv) {
			return nil, apperror.New(apperror.KindDecryptionFailed,
				"keypair public half does not match its seed")
		}
		return &Keypair{priv: priv}, nil
	case ed25519.SeedSize:
		return &Keypair{priv: ed25519.NewKeyFromSeed(parsed.Bytes)}, nil
	default:
		return nil, apperror.New(apperror.KindDecryptionFailed,
			"expected 32-byte seed or 64-byte keypair, got %d bytes", len(parsed.Bytes))
	}
}

func (k *Keypair) Public() ed25519.PublicKey {
	return k.priv.Public().(ed25519.PublicKey)
}

func (k *Keypair) Address() string {
	return base58.Encode(k.Public())
}

func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}
