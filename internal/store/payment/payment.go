package payment

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Create(tx *gorm.DB, payment *model.Payment) (*model.Payment, error) {
	return payment, tx.Create(payment).Error
}

func (s *Store) GetByID(tx *gorm.DB, id uint) (*model.Payment, error) {
	var payment model.Payment
	err := tx.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Store) GetByCode(tx *gorm.DB, code string) (*model.Payment, error) {
	var payment model.Payment
	err := tx.Where("payment_code = ?", code).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *Store) FindByStatus(tx *gorm.DB, status model.PaymentStatus, limit int) ([]model.Payment, error) {
	var payments []model.Payment
	q := tx.Where("status = ?", status).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *Store) TransitionStatus(tx *gorm.DB, id uint, from []model.PaymentStatus, to model.PaymentStatus) (int64, error) {
	res := tx.Model(&model.Payment{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (s *Store) Save(tx *gorm.DB, payment *model.Payment) error {
	return tx.Save(payment).Error
}
