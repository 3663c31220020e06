package bfv

import (
	"math/big"

	"github.com/nimble-works/bfv/utils/factorization"
)

// genNTTFriendlyPrimes searches downward from an initial candidate of the
// requested bit size for `count` distinct primes congruent to 1 mod 2N,
// matching the search SEAL's CoeffModulus generation performs (the original
// non-NTT implementation of this was not part of the retrieval pack; this is
// reconstructed directly against the NTT-friendliness constraint spec.md §4.2
// requires: q_i = 1 mod 2N).
func genNTTFriendlyPrimes(bitSize, count, N int) ([]uint64, error) {
	if bitSize < 2 || bitSize > 61 {
		return nil, newError(InvalidParameters, "prime bit size %d out of range", bitSize)
	}

	mod2N := new(big.Int).SetInt64(int64(2 * N))

	upper := new(big.Int).Lsh(big.NewInt(1), uint(bitSize))
	upper.Sub(upper, big.NewInt(1))

	// Largest candidate <= upper congruent to 1 mod 2N.
	rem := new(big.Int).Mod(upper, mod2N)
	candidate := new(big.Int).Sub(upper, rem)
	candidate.Add(candidate, big.NewInt(1))
	if candidate.Cmp(upper) > 0 {
		candidate.Sub(candidate, mod2N)
	}

	lower := big.NewInt(1 << uint(bitSize-1))

	found := make([]uint64, 0, count)

	for candidate.Cmp(lower) >= 0 && len(found) < count {
		if factorization.IsPrime(candidate) {
			found = append(found, candidate.Uint64())
		}
		candidate.Sub(candidate, mod2N)
	}

	if len(found) < count {
		return nil, newError(InvalidParameters, "could not find %d NTT-friendly primes of %d bits for N=%d", count, bitSize, N)
	}

	return found, nil
}
