package paymentaddress

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Create(tx *gorm.DB, addr *model.PaymentAddress) (*model.PaymentAddress, error) {
	return addr, tx.Create(addr).Error
}

func (s *Store) GetByPaymentID(tx *gorm.DB, paymentID uint) (*model.PaymentAddress, error) {
	var addr model.PaymentAddress
	err := tx.Where("payment_id = ?", paymentID).First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *Store) MarkUsed(tx *gorm.DB, paymentID uint, outboundTxHashes string) error {
	return tx.Model(&model.PaymentAddress{}).
		Where("payment_id = ?", paymentID).
		Updates(map[string]interface{}{
			"is_used":            true,
			"outbound_tx_hashes": outboundTxHashes,
		}).Error
}
