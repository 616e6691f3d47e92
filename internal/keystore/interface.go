package keystore

import (
	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type IAccessor interface {
	// WithDecryptedKey loads and decrypts the one-time private key for a
	// payment, hands it to fn, and scrubs the plaintext before returning on
	// both success and failure paths. The plaintext never outlives fn.
	WithDecryptedKey(paymentID uint, fn func(key *Material, addr *model.PaymentAddress) error) error
}
