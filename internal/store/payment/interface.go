package payment

import (
	"gorm.io/gorm"

	"github.com/dwarvesf/payment-forwarder/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, payment *model.Payment) (*model.Payment, error)
	GetByID(tx *gorm.DB, id uint) (*model.Payment, error)
	GetByCode(tx *gorm.DB, code string) (*model.Payment, error)
	FindByStatus(tx *gorm.DB, status model.PaymentStatus, limit int) ([]model.Payment, error)

	// TransitionStatus updates the status only when the current status is one
	// of the expected values. Returns the number of rows affected; zero means
	// the payment was in another state, typically a lost race with a
	// concurrent forwarding attempt.
	TransitionStatus(tx *gorm.DB, id uint, from []model.PaymentStatus, to model.PaymentStatus) (int64, error)

	Save(tx *gorm.DB, payment *model.Payment) error
}
