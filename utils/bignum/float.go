package bignum

import "math/big"

// NewFloat allocates a new *big.Float with prec bits of precision, set to x.
func NewFloat(x float64, prec uint) (y *big.Float) {
	y = new(big.Float)
	y.SetPrec(prec)
	y.SetFloat64(x)
	return
}
