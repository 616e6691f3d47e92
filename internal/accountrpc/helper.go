package accountrpc

import (
	"math/big"

	"github.com/dwarvesf/payment-forwarder/internal/model"
)

// ScaleAmounts returns the per-instruction send amounts for a sequential
// multi-recipient send. When Σamounts + n×gasCost exceeds the balance, every
// amount is scaled by the ratio (balance − n×gasCost) / Σamounts using
// fixed-point integer arithmetic; monetary values are never divided as
// floats. Returns nil when the balance cannot even cover the gas of all
// legs.
func ScaleAmounts(instructions []model.TransferInstruction, balance, gasCost *big.Int) []*big.Int {
	n := int64(len(instructions))

	requested := new(big.Int)
	amounts := make([]*big.Int, len(instructions))
	for i, ins := range instructions {
		amounts[i] = ins.Amount.BigInt()
		requested.Add(requested, amounts[i])
	}

	totalGas := new(big.Int).Mul(gasCost, big.NewInt(n))
	required := new(big.Int).Add(requested, totalGas)
	if required.Cmp(balance) <= 0 {
		return amounts
	}

	spendable := new(big.Int).Sub(balance, totalGas)
	if spendable.Sign() <= 0 || requested.Sign() == 0 {
		return nil
	}

	scaled := make([]*big.Int, len(amounts))
	for i, a := range amounts {
		s := new(big.Int).Mul(a, spendable)
		s.Quo(s, requested)
		scaled[i] = s
	}

	return scaled
}
