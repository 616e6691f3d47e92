package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending          PaymentStatus = "pending"
	PaymentStatusConfirmed        PaymentStatus = "confirmed"
	PaymentStatusForwarding       PaymentStatus = "forwarding"
	PaymentStatusForwarded        PaymentStatus = "forwarded"
	PaymentStatusForwardingFailed PaymentStatus = "forwarding_failed"
)

// Payment is a request to receive funds at a one-time address and forward
// them, split between the merchant wallet and the platform fee wallet.
// Amount fields are decimal strings in chain-native units.
type Payment struct {
	gorm.Model
	PaymentCode      string        `gorm:"column:payment_code;type:varchar(64);not null;uniqueIndex"`
	Chain            Chain         `gorm:"column:chain;type:varchar(16);not null"`
	Amount           string        `gorm:"column:amount;type:varchar(78);not null"`
	Status           PaymentStatus `gorm:"column:status;type:varchar(32);default:'pending'"`
	ReceivingAddress string        `gorm:"column:receiving_address;type:varchar(128);not null"`
	MerchantAddress  string        `gorm:"column:merchant_address;type:varchar(128);not null"`
	MerchantAmount   string        `gorm:"column:merchant_amount;type:varchar(78)"`
	PlatformFee      string        `gorm:"column:platform_fee;type:varchar(78)"`
	MerchantTxHash   string        `gorm:"column:merchant_tx_hash;type:varchar(128)"`
	PlatformTxHash   string        `gorm:"column:platform_tx_hash;type:varchar(128)"`
	FailureReason    string        `gorm:"column:failure_reason;type:text"`
	ForwardedAt      *time.Time    `gorm:"column:forwarded_at"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentCode == "" {
		p.PaymentCode = uuid.NewString()
	}
	return nil
}
