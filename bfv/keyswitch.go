package bfv

import "github.com/nimble-works/bfv/ring"

// keySwitch decomposes c2 (NTT form) per spec.md §4.4's per-prime
// base-2^LogBase decomposition and accumulates its rows against vector,
// returning the (d0, d1) pair to be added into the target ciphertext's
// (c0, c1), both in NTT form. Each gadget row only carries a nonzero
// payload at its own RNS component (see gadgetVector's doc comment), so a
// digit is reconstructed across every component as the literal small
// integer pulled out of c2's own component - no cross-prime CRT mixing is
// needed, unlike the teacher's hybrid/auxiliary-modulus Decomposer.
func keySwitch(ringQ ring.RNSRing, c2 ring.RNSPoly, vector *gadgetVector) (d0, d1 ring.RNSPoly) {
	moduli := ringQ.ModuliChain()

	c2Coeff := ringQ.NewRNSPoly()
	ringQ.INTT(c2, c2Coeff)

	d0 = ringQ.NewRNSPoly()
	d1 = ringQ.NewRNSPoly()

	digitPoly := ringQ.NewRNSPoly()
	digitNTT := ringQ.NewRNSPoly()
	tmp := ringQ.NewRNSPoly()

	mask := uint64(1)<<vector.LogBase - 1

	for _, row := range vector.Rows {
		component := c2Coeff.At(row.primeIndex)
		shift := uint(row.digit * vector.LogBase)

		for k, qk := range moduli {
			out := digitPoly.At(k)
			for idx, v := range component {
				out[idx] = (v >> shift) & mask % qk
			}
		}

		ringQ.NTT(digitPoly, digitNTT)

		ringQ.MulCoeffsMontgomery(digitNTT, row.A, tmp)
		ringQ.Add(d1, tmp, d1)

		ringQ.MulCoeffsMontgomery(digitNTT, row.B, tmp)
		ringQ.Add(d0, tmp, d0)
	}

	return d0, d1
}
