package dynamo

import (
	"math/big"
	"math/bits"
)

// MulMod returns a·b mod m using a full 128-bit product.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, r := bits.Div64(hi%m, lo, m)
	return r
}

// ModPow computes base^exp mod m by square-and-multiply.
func ModPow(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		base = MulMod(base, base, m)
		exp >>= 1
	}
	return result
}

// ModInverse returns a^(p-2) mod p, the inverse of a for prime p.
func ModInverse(a, p uint64) uint64 {
	return ModPow(a, p-2, p)
}

// IsOddPrime reports whether p is an odd prime. ProbablyPrime is exact
// for inputs below 2^64.
func IsOddPrime(p int64) bool {
	if p < 3 || p%2 == 0 {
		return false
	}
	return big.NewInt(p).ProbablyPrime(0)
}
