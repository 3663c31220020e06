package bfv

import (
	"github.com/nimble-works/bfv/ring"
	"github.com/nimble-works/bfv/utils/sampling"
)

// Encryptor encrypts Plaintexts into Ciphertexts under a PublicKey,
// spec.md §4.3's Encrypt. It keeps preallocated scratch polynomials for
// u and e that are reused across calls; the ciphertext, the NTT form of the
// message and the samplers are allocated on each call.
type Encryptor struct {
	params Parameters
	pk     *PublicKey
	source *sampling.Source

	buf struct {
		u, e ring.RNSPoly
	}
}

// NewEncryptor builds an Encryptor for pk under params, seeding its CSPRNG
// source freshly.
func NewEncryptor(params Parameters, pk *PublicKey) (*Encryptor, error) {
	return NewEncryptorWithSource(params, pk, sampling.NewSource(sampling.NewSeed()))
}

// NewEncryptorWithSource builds an Encryptor drawing randomness from source.
func NewEncryptorWithSource(params Parameters, pk *PublicKey, source *sampling.Source) (*Encryptor, error) {
	if err := params.checkCompatible(pk.paramsHash); err != nil {
		return nil, err
	}
	ringQ := params.RingQ()
	enc := &Encryptor{params: params, pk: pk, source: source}
	enc.buf.u = ringQ.NewRNSPoly()
	enc.buf.e = ringQ.NewRNSPoly()
	return enc, nil
}

// Encrypt returns a fresh degree-1 encryption of pt.
func (enc *Encryptor) Encrypt(pt *Plaintext) (*Ciphertext, error) {
	if err := enc.params.checkCompatible(pt.paramsHash); err != nil {
		return nil, err
	}

	ringQ := enc.params.RingQ()

	ts, err := ring.NewTernarySampler(enc.source, ringQ.ModuliChain(), ring.Ternary{P: 1.0 / 3})
	if err != nil {
		return nil, newError(ArithmeticFailure, "cannot build encryption sampler: %w", err)
	}
	gs := ring.NewGaussianSampler(enc.source, ringQ.ModuliChain(), ring.DiscreteGaussian{Sigma: enc.params.Sigma(), Bound: enc.params.Bound()})

	ts.Read(enc.buf.u)
	ringQ.NTT(enc.buf.u, enc.buf.u)

	ct := NewCiphertext(enc.params, 1)

	ringQ.MulCoeffsMontgomery(enc.pk.P1, enc.buf.u, ct.Value[1])
	gs.Read(enc.buf.e)
	ringQ.NTT(enc.buf.e, enc.buf.e)
	ringQ.Add(ct.Value[1], enc.buf.e, ct.Value[1])

	ringQ.MulCoeffsMontgomery(enc.pk.P0, enc.buf.u, ct.Value[0])
	gs.Read(enc.buf.e)
	ringQ.NTT(enc.buf.e, enc.buf.e)
	ringQ.Add(ct.Value[0], enc.buf.e, ct.Value[0])

	mNTT := ringQ.NewRNSPoly()
	ringQ.NTT(pt.Value, mNTT)
	ringQ.MulScalarBigintThenAdd(mNTT, qDivT(enc.params), ct.Value[0])

	return ct, nil
}
