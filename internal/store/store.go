package store

import (
	"github.com/dwarvesf/payment-forwarder/internal/store/payment"
	"github.com/dwarvesf/payment-forwarder/internal/store/paymentaddress"
)

type Store struct {
	Payment        payment.IStore
	PaymentAddress paymentaddress.IStore
}

func New() *Store {
	return &Store{
		Payment:        payment.New(),
		PaymentAddress: paymentaddress.New(),
	}
}
