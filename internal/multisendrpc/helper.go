package multisendrpc

import "math/big"

// ScaleToMax scales requested amounts down so their sum is exactly max.
// Each amount is floored by integer ratio scaling and the rounding remainder
// is added to the first recipient. Amounts already within max are returned
// unchanged.
func ScaleToMax(amounts []uint64, max uint64) []uint64 {
	var total uint64
	for _, a := range amounts {
		total += a
	}
	if total <= max || total == 0 {
		return amounts
	}

	totalBig := new(big.Int).SetUint64(total)
	maxBig := new(big.Int).SetUint64(max)

	scaled := make([]uint64, len(amounts))
	var sum uint64
	for i, a := range amounts {
		s := new(big.Int).SetUint64(a)
		s.Mul(s, maxBig)
		s.Quo(s, totalBig)
		scaled[i] = s.Uint64()
		sum += scaled[i]
	}
	scaled[0] += max - sum

	return scaled
}
