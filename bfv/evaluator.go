package bfv

import (
	"math/big"

	"github.com/nimble-works/bfv/ring"
)

// Evaluator carries out the homomorphic operations of spec.md §4.4: Add,
// Sub, Negate, Multiply, Square, the plaintext variants, Relinearize and
// ApplyGalois. It is stateless beyond its keys and is safe to share across
// goroutines once built, like the teacher's evaluators.
type Evaluator struct {
	params Parameters
	rlk    *EvaluationKeys
	gk     *GaloisKeys
}

// NewEvaluator builds an Evaluator for params. rlk and gk may be nil if the
// caller never intends to call Relinearize/ApplyGalois; those calls then
// fail with InsufficientKeys.
func NewEvaluator(params Parameters, rlk *EvaluationKeys, gk *GaloisKeys) *Evaluator {
	return &Evaluator{params: params, rlk: rlk, gk: gk}
}

func (ev *Evaluator) checkCiphertext(ct *Ciphertext) error {
	if ct == nil {
		return newError(InvalidArgument, "nil ciphertext")
	}
	return ev.params.checkCompatible(ct.paramsHash)
}

// Add returns ct1+ct2, a ciphertext of degree max(ct1.Degree(), ct2.Degree()).
func (ev *Evaluator) Add(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct1); err != nil {
		return nil, err
	}
	if err := ev.checkCiphertext(ct2); err != nil {
		return nil, err
	}

	degree := ct1.Degree()
	if ct2.Degree() > degree {
		degree = ct2.Degree()
	}

	ringQ := ev.params.RingQ()
	out := NewCiphertext(ev.params, degree)
	for i := range out.Value {
		ringQ.Add(zeroIfAbsent(ringQ, ct1, i), zeroIfAbsent(ringQ, ct2, i), out.Value[i])
	}
	return out, nil
}

// zeroIfAbsent returns ct.Value[i] if it exists, else a zero polynomial,
// letting Add/Sub combine ciphertexts of unequal degree.
func zeroIfAbsent(ringQ ring.RNSRing, ct *Ciphertext, i int) ring.RNSPoly {
	if i <= ct.Degree() {
		return ct.Value[i]
	}
	return ringQ.NewRNSPoly()
}

// Sub returns ct1-ct2.
func (ev *Evaluator) Sub(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct1); err != nil {
		return nil, err
	}
	if err := ev.checkCiphertext(ct2); err != nil {
		return nil, err
	}

	ringQ := ev.params.RingQ()
	degree := ct1.Degree()
	if ct2.Degree() > degree {
		degree = ct2.Degree()
	}

	out := NewCiphertext(ev.params, degree)
	for i := range out.Value {
		ringQ.Sub(zeroIfAbsent(ringQ, ct1, i), zeroIfAbsent(ringQ, ct2, i), out.Value[i])
	}
	return out, nil
}

// Negate returns -ct.
func (ev *Evaluator) Negate(ct *Ciphertext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct); err != nil {
		return nil, err
	}
	ringQ := ev.params.RingQ()
	out := NewCiphertext(ev.params, ct.Degree())
	for i := range out.Value {
		ringQ.Neg(ct.Value[i], out.Value[i])
	}
	return out, nil
}

// AddPlain returns ct+pt.
func (ev *Evaluator) AddPlain(ct *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct); err != nil {
		return nil, err
	}
	if err := ev.params.checkCompatible(pt.paramsHash); err != nil {
		return nil, err
	}

	ringQ := ev.params.RingQ()
	out := ct.CopyNew()

	mNTT := ringQ.NewRNSPoly()
	ringQ.NTT(pt.Value, mNTT)
	ringQ.MulScalarBigintThenAdd(mNTT, qDivT(ev.params), out.Value[0])

	return out, nil
}

// SubPlain returns ct-pt.
func (ev *Evaluator) SubPlain(ct *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct); err != nil {
		return nil, err
	}
	if err := ev.params.checkCompatible(pt.paramsHash); err != nil {
		return nil, err
	}

	ringQ := ev.params.RingQ()
	out := ct.CopyNew()

	mNTT := ringQ.NewRNSPoly()
	ringQ.NTT(pt.Value, mNTT)
	neg := ringQ.NewRNSPoly()
	ringQ.Neg(mNTT, neg)
	ringQ.MulScalarBigintThenAdd(neg, qDivT(ev.params), out.Value[0])

	return out, nil
}

// MultiplyPlain returns ct*pt, a plaintext-scaled ciphertext of the same
// degree: each component is multiplied coefficient-wise (in NTT form) by
// pt's raw (unscaled) coefficients, since Q/t scaling must appear exactly
// once in the result regardless of how many ciphertext operands there are.
func (ev *Evaluator) MultiplyPlain(ct *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct); err != nil {
		return nil, err
	}
	if err := ev.params.checkCompatible(pt.paramsHash); err != nil {
		return nil, err
	}

	ringQ := ev.params.RingQ()
	mNTT := ringQ.NewRNSPoly()
	ringQ.NTT(pt.Value, mNTT)

	out := NewCiphertext(ev.params, ct.Degree())
	for i := range out.Value {
		ringQ.MulCoeffsMontgomery(ct.Value[i], mNTT, out.Value[i])
	}
	return out, nil
}

// Multiply returns the degree-(ct1.Degree()+ct2.Degree()) tensor product of
// ct1 and ct2, the scale-invariant BFV multiplication of spec.md §4.4:
// c3_k = round( (t/Q) * sum_{i+j=k} c1_i * c2_j ), where the sum is the
// EXACT integer value of the negacyclic convolution (not merely its residue
// mod Q). A tensor coefficient can be as large as N*(Q/2)^2 in absolute
// value, far exceeding Q, so computing the sum mod Q alone and centering it
// would silently discard the high-order part of the true value before
// rounding. To avoid that, every ciphertext component is first extended
// (spec.md §4.5's RNSBase/BaseConverter) via [ring.RNSRing.ModUp] from Q
// into the auxiliary base QMul (sized in bfv/params.go's newAuxiliaryBase
// so that Q*QMul comfortably exceeds the tensor's true magnitude), the
// tensor is accumulated independently in both bases, and the two residues
// are CRT-reconstructed together over the concatenated Q||QMul ring — only
// then is the now-exact integer scaled by t/Q and rounded. This is the
// teacher's own he/heint.Evaluator.tensorScaleInvariant/modUpAndNTT
// construction (RQMul extended base, ModUp before tensoring), adapted to
// reconstruct the exact integer directly via centered big.Int CRT instead
// of the teacher's two-step ModDown/ModUp rescale approximation.
func (ev *Evaluator) Multiply(ct1, ct2 *Ciphertext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct1); err != nil {
		return nil, err
	}
	if err := ev.checkCiphertext(ct2); err != nil {
		return nil, err
	}

	ringQ := ev.params.RingQ()
	ringQMul := ev.params.RingQMul()
	d1, d2 := ct1.Degree(), ct2.Degree()
	outDegree := d1 + d2

	ct1Mul, err := extendToAuxiliaryBase(ringQ, ringQMul, ct1)
	if err != nil {
		return nil, err
	}
	ct2Mul, err := extendToAuxiliaryBase(ringQ, ringQMul, ct2)
	if err != nil {
		return nil, err
	}

	tensorQ := make([]ring.RNSPoly, outDegree+1)
	tensorQMul := make([]ring.RNSPoly, outDegree+1)
	for k := range tensorQ {
		tensorQ[k] = ringQ.NewRNSPoly()
		tensorQMul[k] = ringQMul.NewRNSPoly()
	}

	tmpQ := ringQ.NewRNSPoly()
	tmpQMul := ringQMul.NewRNSPoly()
	for i := 0; i <= d1; i++ {
		for j := 0; j <= d2; j++ {
			ringQ.MulCoeffsMontgomery(ct1.Value[i], ct2.Value[j], tmpQ)
			ringQ.Add(tensorQ[i+j], tmpQ, tensorQ[i+j])

			ringQMul.MulCoeffsMontgomery(ct1Mul[i], ct2Mul[j], tmpQMul)
			ringQMul.Add(tensorQMul[i+j], tmpQMul, tensorQMul[i+j])
		}
	}

	out := NewCiphertext(ev.params, outDegree)
	N := ringQ.N()
	t := new(big.Int).SetUint64(ev.params.T())
	Q := ringQ.Modulus()
	combined := ringQ.Concat(ringQMul)

	values := make([]big.Int, N)
	scaled := make([]big.Int, N)
	num := new(big.Int)

	for k := range tensorQ {
		coeffQ := ringQ.NewRNSPoly()
		ringQ.INTT(tensorQ[k], coeffQ)

		coeffQMul := ringQMul.NewRNSPoly()
		ringQMul.INTT(tensorQMul[k], coeffQMul)

		combinedPoly := append(append(ring.RNSPoly{}, coeffQ...), coeffQMul...)
		combined.PolyToBigintCentered(combinedPoly, 1, values)

		for n := range values {
			num.Mul(&values[n], t)
			scaled[n].Set(divRound(num, Q))
		}

		ringQ.SetCoefficientsBigint(scaled, out.Value[k])
		ringQ.NTT(out.Value[k], out.Value[k])
	}

	return out, nil
}

// extendToAuxiliaryBase returns, for every component of ct, its
// representation in the auxiliary base ringQMul (in NTT form, ready for
// MulCoeffsMontgomery), via an inverse-NTT / ModUp / NTT round trip through
// Q's coefficient domain.
func extendToAuxiliaryBase(ringQ, ringQMul ring.RNSRing, ct *Ciphertext) ([]ring.RNSPoly, error) {
	ext := make([]ring.RNSPoly, ct.Degree()+1)
	coeffBuf := ringQ.NewRNSPoly()
	scratchBuf := ringQ.NewRNSPoly()
	for i, c := range ct.Value {
		ringQ.INTT(c, coeffBuf)
		qMulPart := ringQMul.NewRNSPoly()
		ringQ.ModUp(ringQMul, coeffBuf, scratchBuf, qMulPart)
		ringQMul.NTT(qMulPart, qMulPart)
		ext[i] = qMulPart
	}
	return ext, nil
}

// Square returns ct*ct by calling Multiply(ct, ct); every cross term of the
// tensor product is computed in full, the symmetric pairs included.
func (ev *Evaluator) Square(ct *Ciphertext) (*Ciphertext, error) {
	return ev.Multiply(ct, ct)
}

// AddMany returns the sum of cts, folded pairwise left to right.
func (ev *Evaluator) AddMany(cts []*Ciphertext) (*Ciphertext, error) {
	if len(cts) == 0 {
		return nil, newError(InvalidArgument, "AddMany requires at least one ciphertext")
	}
	acc := cts[0]
	var err error
	for _, ct := range cts[1:] {
		if acc, err = ev.Add(acc, ct); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// MultiplyMany multiplies cts pairwise left to right, relinearizing after
// every product so the degree never exceeds 2.
func (ev *Evaluator) MultiplyMany(cts []*Ciphertext) (*Ciphertext, error) {
	if len(cts) == 0 {
		return nil, newError(InvalidArgument, "MultiplyMany requires at least one ciphertext")
	}
	acc := cts[0]
	var err error
	for _, ct := range cts[1:] {
		if acc, err = ev.Multiply(acc, ct); err != nil {
			return nil, err
		}
		if acc.Degree() > 1 {
			if acc, err = ev.Relinearize(acc); err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

// Exponentiate returns ct^n via repeated Multiply+Relinearize (binary
// exponentiation), n >= 1.
func (ev *Evaluator) Exponentiate(ct *Ciphertext, n int) (*Ciphertext, error) {
	if n < 1 {
		return nil, newError(InvalidArgument, "exponent must be >= 1, got %d", n)
	}
	if n == 1 {
		return ct.CopyNew(), nil
	}

	result := (*Ciphertext)(nil)
	base := ct
	for n > 0 {
		if n&1 == 1 {
			if result == nil {
				result = base.CopyNew()
			} else {
				var err error
				if result, err = ev.Multiply(result, base); err != nil {
					return nil, err
				}
				if result.Degree() > 1 {
					if result, err = ev.Relinearize(result); err != nil {
						return nil, err
					}
				}
			}
		}
		n >>= 1
		if n > 0 {
			var err error
			if base, err = ev.Multiply(base, base); err != nil {
				return nil, err
			}
			if base.Degree() > 1 {
				if base, err = ev.Relinearize(base); err != nil {
					return nil, err
				}
			}
		}
	}
	return result, nil
}

// Relinearize reduces ct to degree 1 using the relinearization keys,
// key-switching every component of degree >= 2 back down.
func (ev *Evaluator) Relinearize(ct *Ciphertext) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct); err != nil {
		return nil, err
	}
	if ct.Degree() < 2 {
		return ct.CopyNew(), nil
	}
	if ev.rlk == nil {
		return nil, newError(InsufficientKeys, "no relinearization keys configured")
	}
	if err := ev.params.checkCompatible(ev.rlk.paramsHash); err != nil {
		return nil, err
	}

	ringQ := ev.params.RingQ()
	out := NewCiphertext(ev.params, 1)
	ringQ.Add(out.Value[0], ct.Value[0], out.Value[0])
	ringQ.Add(out.Value[1], ct.Value[1], out.Value[1])

	for k := 2; k <= ct.Degree(); k++ {
		gv, ok := ev.rlk.Keys[k]
		if !ok {
			return nil, newError(InsufficientKeys, "no relinearization key for degree %d", k)
		}
		d0, d1 := keySwitch(ringQ, ct.Value[k], gv)
		ringQ.Add(out.Value[0], d0, out.Value[0])
		ringQ.Add(out.Value[1], d1, out.Value[1])
	}

	return out, nil
}

// ApplyGalois applies the automorphism x -> x^el to ct, a degree-1
// ciphertext, returning a new degree-1 ciphertext encrypted under the same
// secret key (used for slot rotations and conjugation, spec.md §4.4).
func (ev *Evaluator) ApplyGalois(ct *Ciphertext, el uint64) (*Ciphertext, error) {
	if err := ev.checkCiphertext(ct); err != nil {
		return nil, err
	}
	if ct.Degree() != 1 {
		return nil, newError(InvalidArgument, "ApplyGalois requires a degree-1 ciphertext, got degree %d", ct.Degree())
	}
	if ev.gk == nil {
		return nil, newError(InsufficientKeys, "no Galois keys configured")
	}
	if err := ev.params.checkCompatible(ev.gk.paramsHash); err != nil {
		return nil, err
	}
	gv, ok := ev.gk.Keys[el]
	if !ok {
		return nil, newError(InsufficientKeys, "no Galois key for element %d", el)
	}

	ringQ := ev.params.RingQ()

	c0Rot := ringQ.NewRNSPoly()
	applyGaloisNTT(ringQ, ct.Value[0], el, c0Rot)

	c1Rot := ringQ.NewRNSPoly()
	applyGaloisNTT(ringQ, ct.Value[1], el, c1Rot)

	d0, d1 := keySwitch(ringQ, c1Rot, gv)

	out := NewCiphertext(ev.params, 1)
	ringQ.Add(c0Rot, d0, out.Value[0])
	out.Value[1].Copy(&d1)

	return out, nil
}
