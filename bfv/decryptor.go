package bfv

import (
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Decryptor decrypts Ciphertexts under a SecretKey, spec.md §4.3's Decrypt,
// and measures the invariant noise budget of spec.md §4.6.
type Decryptor struct {
	params Parameters
	sk     *SecretKey
}

// NewDecryptor builds a Decryptor for sk under params.
func NewDecryptor(params Parameters, sk *SecretKey) (*Decryptor, error) {
	if err := params.checkCompatible(sk.paramsHash); err != nil {
		return nil, err
	}
	return &Decryptor{params: params, sk: sk}, nil
}

// innerProduct returns the centered, arbitrary-precision lift of
// sum_i ct.Value[i] * s^i mod Q, one big.Int per coefficient.
func (dec *Decryptor) innerProduct(ct *Ciphertext) ([]big.Int, error) {
	ringQ := dec.params.RingQ()

	acc := ringQ.NewRNSPoly()
	ringQ.Add(acc, ct.Value[0], acc)

	if ct.Degree() >= 1 {
		sPow := ringQ.NewRNSPoly()
		sPow.Copy(&dec.sk.Value)

		term := ringQ.NewRNSPoly()
		for i := 1; i <= ct.Degree(); i++ {
			ringQ.MulCoeffsMontgomery(ct.Value[i], sPow, term)
			ringQ.Add(acc, term, acc)
			if i < ct.Degree() {
				ringQ.MulCoeffsMontgomery(sPow, dec.sk.Value, sPow)
			}
		}
	}

	coeffDomain := ringQ.NewRNSPoly()
	ringQ.INTT(acc, coeffDomain)

	N := ringQ.N()
	values := make([]big.Int, N)
	ringQ.PolyToBigintCentered(coeffDomain, 1, values)

	return values, nil
}

// Decrypt returns the plaintext message underlying ct, rounding
// t/Q * <ct, (1, s, s^2, ...)> to the nearest integer mod t.
func (dec *Decryptor) Decrypt(ct *Ciphertext) (*Plaintext, error) {
	if err := dec.params.checkCompatible(ct.paramsHash); err != nil {
		return nil, err
	}

	y, err := dec.innerProduct(ct)
	if err != nil {
		return nil, err
	}

	Q := dec.params.RingQ().Modulus()
	t := new(big.Int).SetUint64(dec.params.T())

	coeffs := make([]uint64, len(y))
	num := new(big.Int)
	for i := range y {
		num.Mul(&y[i], t)
		r := divRound(num, Q)
		r.Mod(r, t)
		coeffs[i] = r.Uint64()
	}

	pt := NewPlaintext(dec.params)
	if err := pt.SetCoefficients(dec.params, coeffs); err != nil {
		return nil, err
	}
	return pt, nil
}

// divRound computes round(num/den) with ties rounded away from zero,
// matching the rounding SEAL-derived BFV decryption uses.
func divRound(num, den *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(num, den, r)

	r.Abs(r)
	r.Lsh(r, 1)

	if r.CmpAbs(new(big.Int).Abs(den)) >= 0 {
		if (num.Sign() < 0) != (den.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}

// InvariantNoiseBudget returns -log2(2*||v||_inf), where v is the
// fractional rounding error of t/Q * <ct, (1, s, s^2, ...)>: the number of
// bits of noise budget remaining before decryption would fail, per
// spec.md §4.6. A freshly encrypted ciphertext has the largest budget;
// each homomorphic multiplication roughly halves it.
func (dec *Decryptor) InvariantNoiseBudget(ct *Ciphertext) (float64, error) {
	if err := dec.params.checkCompatible(ct.paramsHash); err != nil {
		return 0, err
	}

	y, err := dec.innerProduct(ct)
	if err != nil {
		return 0, err
	}

	Q := dec.params.RingQ().Modulus()
	t := new(big.Int).SetUint64(dec.params.T())

	prec := uint(Q.BitLen()*2 + 128)
	QF := new(big.Float).SetPrec(prec).SetInt(Q)

	maxAbs := new(big.Float).SetPrec(prec)
	num := new(big.Int)

	for i := range y {
		num.Mul(&y[i], t)
		r := divRound(num, Q)

		frac := new(big.Float).SetPrec(prec).SetInt(num)
		rQ := new(big.Float).SetPrec(prec).Mul(new(big.Float).SetPrec(prec).SetInt(r), QF)
		frac.Sub(frac, rQ)
		frac.Quo(frac, QF)
		frac.Abs(frac)

		if frac.Cmp(maxAbs) > 0 {
			maxAbs.Set(frac)
		}
	}

	if maxAbs.Sign() == 0 {
		return float64(Q.BitLen()), nil
	}

	two := new(big.Float).SetPrec(prec).Mul(maxAbs, big.NewFloat(2))
	logTwoNoise := bigfloat.Log2(two)

	budget := new(big.Float).SetPrec(prec).Neg(logTwoNoise)
	out, _ := budget.Float64()
	return out, nil
}
