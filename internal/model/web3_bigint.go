package model

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Web3BigInt is an integer amount in minor units (satoshi, wei, lamport)
// carried as a decimal string to survive JSON and database round trips.
type Web3BigInt struct {
	Value   string `json:"value"`
	Decimal int    `json:"decimal"`
}

func NewWeb3BigInt(value string, decimals int) *Web3BigInt {
	return &Web3BigInt{Value: value, Decimal: decimals}
}

// FromDecimal converts a chain-native amount (e.g. "99.5" BTC) into minor
// units, truncating anything below one minor unit.
func FromDecimal(amount decimal.Decimal, decimals int) *Web3BigInt {
	minor := amount.Shift(int32(decimals)).Truncate(0)
	return &Web3BigInt{
		Value:   minor.String(),
		Decimal: decimals,
	}
}

func (w *Web3BigInt) BigInt() *big.Int {
	amt, ok := new(big.Int).SetString(w.Value, 10)
	if !ok {
		return big.NewInt(0)
	}
	return amt
}

func (w *Web3BigInt) Int64() (int64, bool) {
	amt, ok := new(big.Int).SetString(w.Value, 10)
	if !ok {
		return 0, false
	}

	return amt.Int64(), true
}

func (w *Web3BigInt) ToFloat() float64 {
	num := new(big.Int)
	num.SetString(w.Value, 10)

	floatNum := new(big.Float).SetInt(num)

	divisor := new(big.Float).SetFloat64(math.Pow(10, float64(w.Decimal)))

	floatNum.Quo(floatNum, divisor)

	result, _ := floatNum.Float64()
	return result
}

// ToDecimal is the inverse of FromDecimal.
func (w *Web3BigInt) ToDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(w.Value)
	if err != nil {
		return decimal.Zero
	}
	return d.Shift(-int32(w.Decimal))
}

func (w *Web3BigInt) Add(number *Web3BigInt) *Web3BigInt {
	num1 := new(big.Int)
	num1.SetString(w.Value, 10)

	num2 := new(big.Int)
	num2.SetString(number.Value, 10)

	result := new(big.Int)
	result.Add(num1, num2)

	return &Web3BigInt{
		Value:   result.String(),
		Decimal: w.Decimal,
	}
}

func (w *Web3BigInt) Sub(number *Web3BigInt) *Web3BigInt {
	num1 := new(big.Int)
	num1.SetString(w.Value, 10)

	num2 := new(big.Int)
	num2.SetString(number.Value, 10)

	result := new(big.Int)
	result.Sub(num1, num2)

	return &Web3BigInt{
		Value:   result.String(),
		Decimal: w.Decimal,
	}
}

// Cmp compares amounts: -1 if w < other, 0 if equal, 1 if w > other.
func (w *Web3BigInt) Cmp(other *Web3BigInt) int {
	return w.BigInt().Cmp(other.BigInt())
}

// ScaleByRatio returns floor(w * num / den). Used to scale recipient amounts
// down when the spendable balance cannot cover the requested total; integer
// arithmetic only, no floating-point division of monetary values.
func (w *Web3BigInt) ScaleByRatio(num, den *big.Int) *Web3BigInt {
	if den.Sign() == 0 {
		return &Web3BigInt{Value: "0", Decimal: w.Decimal}
	}

	scaled := new(big.Int).Mul(w.BigInt(), num)
	scaled.Quo(scaled, den)

	return &Web3BigInt{
		Value:   scaled.String(),
		Decimal: w.Decimal,
	}
}
