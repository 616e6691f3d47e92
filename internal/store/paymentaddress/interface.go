package paymentaddress

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, addr *model.PaymentAddress) (*model.PaymentAddress, error)
	GetByPaymentID(tx *gorm.DB, paymentID uint) (*model.PaymentAddress, error)

	// MarkUsed flips the one-shot used flag and records the outbound
	// transaction hashes. Called exactly once, after a successful forward.
	MarkUsed(tx *gorm.DB, paymentID uint, outboundTxHashes string) error
}
