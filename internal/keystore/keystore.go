package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/apperror"
	"github.com/dwarvesf/payment-forwarder/internal/model"
	"github.com/dwarvesf/payment-forwarder/internal/store"
	"github.com/dwarvesf/payment-forwarder/internal/utils/logger"
)

// Accessor decrypts stored one-time private keys under the server master
// key. Stored ciphertext is base64(nonce ∥ AES-256-GCM ciphertext).
type Accessor struct {
	db        *gorm.DB
	store     *store.Store
	masterKey []byte
	logger    *logger.Logger
}

func New(db *gorm.DB, store *store.Store, masterKeyHex string, logger *logger.Logger) (*Accessor, error) {
	masterKey, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindDecryptionFailed, "master key is not valid hex")
	}
	if len(masterKey) != 32 {
		return nil, apperror.New(apperror.KindDecryptionFailed, "master key must be 32 bytes, got %d", len(masterKey))
	}

	return &Accessor{
		db:        db,
		store:     store,
		masterKey: masterKey,
		logger:    logger,
	}, nil
}

func (a *Accessor) WithDecryptedKey(paymentID uint, fn func(key *Material, addr *model.PaymentAddress) error) error {
	addr, err := a.store.PaymentAddress.GetByPaymentID(a.db, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.New(apperror.KindKeyNotFound, "no address record for payment %d", paymentID)
		}
		return apperror.Wrap(err, apperror.KindInternal, "load address record for payment %d", paymentID)
	}

	plaintext, err := a.decrypt(addr.EncryptedPrivateKey)
	if err != nil {
		a.logger.Error("[WithDecryptedKey][decrypt]", map[string]string{
			"address": addr.Address,
			"error":   err.Error(),
		})
		return err
	}

	material := NewMaterial(plaintext)
	defer material.Scrub()

	return fn(material, addr)
}

// Encrypt seals plaintext key material for storage. The inverse of the
// decryption done by WithDecryptedKey; used when recording a freshly
// derived one-time address.
func (a *Accessor) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(a.masterKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (a *Accessor) decrypt(encoded string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindDecryptionFailed, "stored key material is not valid base64")
	}

	block, err := aes.NewCipher(a.masterKey)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindDecryptionFailed, "init cipher")
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindDecryptionFailed, "init gcm")
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, apperror.New(apperror.KindDecryptionFailed, "ciphertext shorter than nonce")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Typically a rotated master key without re-encryption. Fatal,
		// requires operator intervention.
		return nil, apperror.Wrap(err, apperror.KindDecryptionFailed, "cannot decrypt stored key material")
	}

	return plaintext, nil
}
