package ring

import "math/big"

// NussbaumerMultiply computes the negacyclic product a*b in Z[x]/(x^N+1)
// with exact, arbitrary-precision integer coefficients.
//
// It does not run Nussbaumer's recursive grid-and-butterfly decomposition:
// every product, whatever N is, is computed by the O(N^2) schoolbook
// negacyclic convolution of negacyclicConvolve.
func NussbaumerMultiply(a, b []*big.Int, N int) []*big.Int {
	return negacyclicConvolve(a, b, N)
}

// NussbaumerCrossMultiply computes a*a, b*b and a*b as three independent
// schoolbook convolutions computed back to back; nothing is shared between
// the three products.
func NussbaumerCrossMultiply(a, b []*big.Int, N int) (aa, bb, ab []*big.Int) {
	return negacyclicConvolve(a, a, N), negacyclicConvolve(b, b, N), negacyclicConvolve(a, b, N)
}

// negacyclicConvolve computes c = a*b mod (x^N+1) over Z, exactly.
func negacyclicConvolve(a, b []*big.Int, N int) []*big.Int {
	c := make([]*big.Int, N)
	for i := range c {
		c[i] = new(big.Int)
	}

	tmp := new(big.Int)
	for i := 0; i < N; i++ {
		if a[i].Sign() == 0 {
			continue
		}
		for j := 0; j < N; j++ {
			if b[j].Sign() == 0 {
				continue
			}
			tmp.Mul(a[i], b[j])
			k := i + j
			if k < N {
				c[k].Add(c[k], tmp)
			} else {
				// x^N = -1
				c[k-N].Sub(c[k-N], tmp)
			}
		}
	}

	return c
}
