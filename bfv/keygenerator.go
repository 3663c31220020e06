package bfv

import (
	"math/big"
	"sync"

	"github.com/nimble-works/bfv/ring"
	"github.com/nimble-works/bfv/utils/sampling"
)

// DefaultLogBase is the default digit-decomposition basis, 2^DefaultLogBase,
// used by GenEvaluationKeys/GenGaloisKeys when the caller does not request a
// specific one. A smaller basis produces more decomposition digits (more
// key-switching rows, lower noise growth per relinearization); a larger one
// produces fewer rows at the cost of faster noise growth.
const DefaultLogBase = 20

// KeyGenerator derives keys for a fixed Parameters. It caches powers of the
// secret key it has already computed so that generating several
// relinearization keys (s^2, s^3, ...) in sequence does not repeat work,
// guarded by a RWMutex since a KeyGenerator may be shared across goroutines
// (spec.md §5).
type KeyGenerator struct {
	params Parameters
	source *sampling.Source

	mu     sync.RWMutex
	powers map[int]ring.RNSPoly // cache of s^k, keyed by k >= 1
}

// NewKeyGenerator creates a KeyGenerator for params, drawing randomness from
// a freshly seeded CSPRNG source.
func NewKeyGenerator(params Parameters) *KeyGenerator {
	return NewKeyGeneratorWithSource(params, sampling.NewSource(sampling.NewSeed()))
}

// NewKeyGeneratorWithSource creates a KeyGenerator drawing randomness from
// the given source, letting a caller supply a deterministic seed for tests.
func NewKeyGeneratorWithSource(params Parameters, source *sampling.Source) *KeyGenerator {
	return &KeyGenerator{
		params: params,
		source: source,
		powers: make(map[int]ring.RNSPoly),
	}
}

// GenSecretKey samples and returns a fresh ternary SecretKey in NTT form.
func (kg *KeyGenerator) GenSecretKey() (*SecretKey, error) {
	ringQ := kg.params.RingQ()

	ts, err := ring.NewTernarySampler(kg.source, ringQ.ModuliChain(), ring.Ternary{P: 1.0 / 3})
	if err != nil {
		return nil, newError(InvalidParameters, "cannot build secret-key sampler: %w", err)
	}

	sk := &SecretKey{Value: ringQ.NewRNSPoly(), paramsHash: kg.params.Hash()}
	ts.Read(sk.Value)
	ringQ.NTT(sk.Value, sk.Value)

	kg.mu.Lock()
	kg.powers[1] = sk.Value
	kg.mu.Unlock()

	return sk, nil
}

// GenPublicKey samples and returns a fresh PublicKey for sk: (p1=a,
// p0=-a*s+e), both in NTT form.
func (kg *KeyGenerator) GenPublicKey(sk *SecretKey) (*PublicKey, error) {
	if err := kg.params.checkCompatible(sk.paramsHash); err != nil {
		return nil, err
	}

	ringQ := kg.params.RingQ()

	us := ring.NewUniformSampler(kg.source, ringQ.ModuliChain())
	gs := ring.NewGaussianSampler(kg.source, ringQ.ModuliChain(), ring.DiscreteGaussian{Sigma: kg.params.Sigma(), Bound: kg.params.Bound()})

	pk := &PublicKey{P0: ringQ.NewRNSPoly(), P1: ringQ.NewRNSPoly(), paramsHash: kg.params.Hash()}

	us.Read(pk.P1)

	e := ringQ.NewRNSPoly()
	gs.Read(e)
	ringQ.NTT(e, e)

	ringQ.MulCoeffsMontgomery(pk.P1, sk.Value, pk.P0)
	ringQ.Neg(pk.P0, pk.P0)
	ringQ.Add(pk.P0, e, pk.P0)

	return pk, nil
}

// skPower returns s^k (NTT form), computing and caching any missing
// intermediate powers.
func (kg *KeyGenerator) skPower(sk *SecretKey, k int) ring.RNSPoly {
	kg.mu.RLock()
	if p, ok := kg.powers[k]; ok {
		kg.mu.RUnlock()
		return p
	}
	kg.mu.RUnlock()

	ringQ := kg.params.RingQ()

	kg.mu.Lock()
	defer kg.mu.Unlock()

	if p, ok := kg.powers[k]; ok {
		return p
	}

	prev, ok := kg.powers[k-1]
	if !ok {
		prev = kg.skPowerLocked(sk, k-1, ringQ)
	}

	cur := ringQ.NewRNSPoly()
	ringQ.MulCoeffsMontgomery(prev, sk.Value, cur)
	kg.powers[k] = cur
	return cur
}

// skPowerLocked computes s^k assuming kg.mu is already held for writing.
func (kg *KeyGenerator) skPowerLocked(sk *SecretKey, k int, ringQ ring.RNSRing) ring.RNSPoly {
	if k == 1 {
		kg.powers[1] = sk.Value
		return sk.Value
	}
	if p, ok := kg.powers[k]; ok {
		return p
	}
	prev := kg.skPowerLocked(sk, k-1, ringQ)
	cur := ringQ.NewRNSPoly()
	ringQ.MulCoeffsMontgomery(prev, sk.Value, cur)
	kg.powers[k] = cur
	return cur
}

// GenEvaluationKeys generates relinearization keys switching s^2..s^maxDegree
// back down to degree 1, one gadgetVector per power, using the digit basis
// 2^logBase (DefaultLogBase if logBase <= 0).
func (kg *KeyGenerator) GenEvaluationKeys(sk *SecretKey, maxDegree, logBase int) (*EvaluationKeys, error) {
	if err := kg.params.checkCompatible(sk.paramsHash); err != nil {
		return nil, err
	}
	if maxDegree < 2 {
		return nil, newError(InvalidArgument, "maxDegree must be >= 2, got %d", maxDegree)
	}
	if logBase <= 0 {
		logBase = DefaultLogBase
	}

	ek := &EvaluationKeys{Keys: make(map[int]*gadgetVector, maxDegree-1), paramsHash: kg.params.Hash()}

	for d := 2; d <= maxDegree; d++ {
		payload := kg.skPower(sk, d)
		gv, err := kg.genGadgetVector(sk, payload, logBase)
		if err != nil {
			return nil, err
		}
		ek.Keys[d] = gv
	}

	return ek, nil
}

// GenGaloisKeys generates one key-switching key per requested Galois
// element, each publishing an encryption of s(X^el) under s(X).
func (kg *KeyGenerator) GenGaloisKeys(sk *SecretKey, elements []uint64, logBase int) (*GaloisKeys, error) {
	if err := kg.params.checkCompatible(sk.paramsHash); err != nil {
		return nil, err
	}
	if logBase <= 0 {
		logBase = DefaultLogBase
	}

	gk := &GaloisKeys{Keys: make(map[uint64]*gadgetVector, len(elements)), paramsHash: kg.params.Hash()}

	ringQ := kg.params.RingQ()

	for _, el := range elements {
		rotated := ringQ.NewRNSPoly()
		applyGaloisNTT(ringQ, sk.Value, el, rotated)

		gv, err := kg.genGadgetVector(sk, rotated, logBase)
		if err != nil {
			return nil, err
		}
		gk.Keys[el] = gv
	}

	return gk, nil
}

// genGadgetVector builds the per-prime base-2^logBase digit-decomposition
// gadget vector publishing an encryption of payload under sk, the
// construction shared by relinearization keys and Galois keys alike.
func (kg *KeyGenerator) genGadgetVector(sk *SecretKey, payload ring.RNSPoly, logBase int) (*gadgetVector, error) {
	ringQ := kg.params.RingQ()
	moduli := ringQ.ModuliChain()

	us := ring.NewUniformSampler(kg.source, moduli)
	gs := ring.NewGaussianSampler(kg.source, moduli, ring.DiscreteGaussian{Sigma: kg.params.Sigma(), Bound: kg.params.Bound()})

	gv := &gadgetVector{LogBase: logBase}

	base := new(big.Int).Lsh(big.NewInt(1), uint(logBase))

	for i, qi := range moduli {
		digits := (bitLen(qi) + logBase - 1) / logBase
		qiBig := new(big.Int).SetUint64(qi)

		for j := 0; j < digits; j++ {
			a := ringQ.NewRNSPoly()
			us.Read(a)

			e := ringQ.NewRNSPoly()
			gs.Read(e)
			ringQ.NTT(e, e)

			scalar := ringQ.NewRNSScalar()
			scalar[i] = new(big.Int).Exp(base, big.NewInt(int64(j)), qiBig).Uint64()
			scalarM := ringQ.NewRNSScalar()
			ringQ.MFormRNSScalar(scalar, scalarM)

			payloadScaled := ringQ.NewRNSPoly()
			ringQ.MulRNSScalarMontgomery(payload, scalarM, payloadScaled)

			b := ringQ.NewRNSPoly()
			ringQ.MulCoeffsMontgomery(a, sk.Value, b)
			ringQ.Neg(b, b)
			ringQ.Add(b, e, b)
			ringQ.Add(b, payloadScaled, b)

			gv.Rows = append(gv.Rows, gadgetRow{primeIndex: i, digit: j, A: a, B: b})
		}
	}

	return gv, nil
}
