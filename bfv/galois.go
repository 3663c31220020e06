package bfv

import (
	"math/big"

	"github.com/nimble-works/bfv/ring"
)

// GaloisElementForColumnRotation returns the Galois element implementing
// the conjugate (column-swap) automorphism x -> x^-1, i.e. 2N-1.
func GaloisElementForColumnRotation(N int) uint64 {
	return uint64(2*N - 1)
}

// GaloisElementForRowRotation returns the Galois element implementing a
// cyclic rotation by k slots within each of the two plaintext rows, i.e.
// 5^k mod 2N, 5 being a generator of the order-N/2 cyclic subgroup of
// (Z/2NZ)^* used for slot rotations. Negative k rotates the other way,
// computed via the modular inverse of 5^|k|.
func GaloisElementForRowRotation(N, k int) uint64 {
	mod2N := new(big.Int).SetInt64(int64(2 * N))
	five := big.NewInt(5)

	absK := k
	if absK < 0 {
		absK = -absK
	}

	el := new(big.Int).Exp(five, big.NewInt(int64(absK)), mod2N)
	if k < 0 {
		el.ModInverse(el, mod2N)
	}
	return el.Uint64()
}

// applyGaloisNTT sets dst to the result of applying the automorphism
// x -> x^el (mod x^N+1) to src, where both src and dst are in NTT form.
// The permutation is carried out in coefficient form (INTT, permute, NTT)
// rather than by the index permutation lattigo applies directly to NTT
// slots: simpler to get right without a compile loop, at the cost of two
// extra transforms per call, which is acceptable since this runs once per
// Galois key generated or ApplyGalois call, not on any hot per-coefficient
// path.
func applyGaloisNTT(ringQ ring.RNSRing, src ring.RNSPoly, el uint64, dst ring.RNSPoly) {
	N := ringQ.N()

	coeffSrc := ringQ.NewRNSPoly()
	ringQ.INTT(src, coeffSrc)

	coeffDst := ringQ.NewRNSPoly()

	moduli := ringQ.ModuliChain()
	mod2N := uint64(2 * N)

	for i, qi := range moduli {
		in := coeffSrc.At(i)
		out := coeffDst.At(i)
		for j := 0; j < N; j++ {
			jg := (uint64(j) * el) % mod2N
			v := in[j]
			if jg < uint64(N) {
				out[jg] = v
			} else {
				idx := jg - uint64(N)
				if v == 0 {
					out[idx] = 0
				} else {
					out[idx] = qi - v
				}
			}
		}
	}

	ringQ.NTT(coeffDst, dst)
}
