package factorization

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPrime(t *testing.T) {
	require.True(t, IsPrime(big.NewInt(2)))
	require.True(t, IsPrime(big.NewInt(65537)))
	require.False(t, IsPrime(big.NewInt(1)))
	require.False(t, IsPrime(big.NewInt(91)))
}

func TestGetFactors(t *testing.T) {
	n := big.NewInt(2 * 2 * 3 * 7 * 11)
	factors := GetFactors(n)

	want := map[string]bool{"2": true, "3": true, "7": true, "11": true}
	require.Len(t, factors, len(want))
	for _, f := range factors {
		require.True(t, want[f.String()], "unexpected factor %s", f.String())
	}
}

func TestGetFactorPollardRho(t *testing.T) {
	n := new(big.Int).Mul(big.NewInt(104729), big.NewInt(104723))
	f := GetFactorPollardRho(n)
	require.NotNil(t, f)
	r := new(big.Int).Mod(n, f)
	require.Equal(t, int64(0), r.Int64())
}
