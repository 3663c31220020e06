package ring

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func naiveNegacyclic(a, b []*big.Int, N int) []*big.Int {
	c := make([]*big.Int, N)
	for i := range c {
		c[i] = new(big.Int)
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			v := new(big.Int).Mul(a[i], b[j])
			k := i + j
			if k < N {
				c[k].Add(c[k], v)
			} else {
				c[k-N].Sub(c[k-N], v)
			}
		}
	}
	return c
}

func randomBigPoly(N int, seed int64) []*big.Int {
	r := big.NewInt(seed)
	out := make([]*big.Int, N)
	for i := range out {
		r = new(big.Int).Mul(r, big.NewInt(6364136223846793005))
		r = new(big.Int).Add(r, big.NewInt(1442695040888963407))
		v := new(big.Int).Mod(r, big.NewInt(2000))
		v.Sub(v, big.NewInt(1000))
		out[i] = v
	}
	return out
}

func TestNussbaumerMultiplyMatchesNaive(t *testing.T) {
	N := 16
	a := randomBigPoly(N, 1)
	b := randomBigPoly(N, 2)

	got := NussbaumerMultiply(a, b, N)
	want := naiveNegacyclic(a, b, N)

	for i := range want {
		require.Equal(t, want[i].String(), got[i].String(), "coefficient %d", i)
	}
}

func TestNussbaumerCrossMultiply(t *testing.T) {
	N := 8
	a := randomBigPoly(N, 3)
	b := randomBigPoly(N, 4)

	aa, bb, ab := NussbaumerCrossMultiply(a, b, N)

	require.Equal(t, naiveNegacyclic(a, a, N), aa)
	require.Equal(t, naiveNegacyclic(b, b, N), bb)
	require.Equal(t, naiveNegacyclic(a, b, N), ab)
}
