package model

import (
	"gorm.io/gorm"
)

// PaymentAddress holds the one-time receiving address for a payment and its
// encrypted private key material. The decrypted key is never persisted.
// Immutable after creation except for the used flag and the outbound hashes,
// both set exactly once after a successful forward.
type PaymentAddress struct {
	gorm.Model
	PaymentID           uint   `gorm:"column:payment_id;not null;uniqueIndex"`
	Chain               Chain  `gorm:"column:chain;type:varchar(16);not null"`
	Address             string `gorm:"column:address;type:varchar(128);not null;uniqueIndex"`
	EncryptedPrivateKey string `gorm:"column:encrypted_private_key;type:text;not null"`
	DerivationIndex     int64  `gorm:"column:derivation_index;not null"`
	ExpectedAmount      string `gorm:"column:expected_amount;type:varchar(78);not null"`
	IsUsed              bool   `gorm:"column:is_used;default:false"`
	OutboundTxHashes    string `gorm:"column:outbound_tx_hashes;type:text"`
}

func (PaymentAddress) TableName() string {
	return "payment_addresses"
}
