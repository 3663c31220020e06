package bfv

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/google/go-cmp/cmp"
	"github.com/nimble-works/bfv/ring"
	"github.com/nimble-works/bfv/utils/factorization"
	"golang.org/x/crypto/sha3"
)

// DefaultSigma is the standard deviation used by the error distribution
// when a ParametersLiteral leaves Sigma unset.
const DefaultSigma = 3.19

// MinLogN and MaxLogN bound the supported ring degree, matching spec.md's
// 1024 <= N <= 32768.
const (
	MinLogN = 10
	MaxLogN = 15
)

// MaxModulusBits is the largest bit length allowed for any q_i or for t.
const MaxModulusBits = 60

// ParametersLiteral is the user-facing, JSON-serializable configuration
// surface: the parameter-set builder of spec.md §6, expressed as a literal
// struct rather than a fluent builder since that is how the teacher corpus
// itself configures ring parameters (rlwe.ParametersLiteral in the teacher).
type ParametersLiteral struct {
	LogN  int      // set_poly_modulus_degree
	Q     []uint64 // set_coeff_modulus; if nil, QBitSizes is used to generate a chain
	QBitSizes []int
	T     uint64 // set_plain_modulus
	Sigma float64 // set_noise_standard_deviation; 0 means DefaultSigma
}

// Equal reports whether lit and other describe the same parameter set.
func (lit ParametersLiteral) Equal(other ParametersLiteral) bool {
	return lit.LogN == other.LogN &&
		lit.T == other.T &&
		lit.Sigma == other.Sigma &&
		cmp.Equal(lit.Q, other.Q) &&
		cmp.Equal(lit.QBitSizes, other.QBitSizes)
}

// Parameters is the immutable, validated ContextData of spec.md §4.7.
// It is built once from a ParametersLiteral and is safe for concurrent
// reads from any number of goroutines thereafter (spec.md §5).
type Parameters struct {
	logN int

	ringQ    ring.RNSRing
	ringQMul ring.RNSRing
	t        uint64

	sigma float64
	bound float64

	batchingAvailable bool
	usable            bool

	hash [32]byte
}

// NewParameters validates lit and builds the immutable Parameters it
// describes, performing every check of spec.md §4.7. On any validation
// failure it returns a Parameters with Usable() == false and a non-nil
// error; per spec.md §4.7, operations must reject such a Parameters with
// InvalidParameters rather than silently accepting it.
func NewParameters(lit ParametersLiteral) (Parameters, error) {

	N := 1 << lit.LogN

	if lit.LogN < MinLogN || lit.LogN > MaxLogN {
		return Parameters{}, newError(InvalidParameters, "LogN=%d out of range [%d, %d]", lit.LogN, MinLogN, MaxLogN)
	}

	q := lit.Q
	var err error
	if len(q) == 0 {
		if len(lit.QBitSizes) == 0 {
			return Parameters{}, newError(InvalidParameters, "ParametersLiteral must set either Q or QBitSizes")
		}
		if q, err = genDistinctPrimesPerSize(lit.QBitSizes, N); err != nil {
			return Parameters{}, newError(InvalidParameters, "cannot generate Q: %w", err)
		}
	}

	if err := validateModuli(q, N); err != nil {
		return Parameters{}, newError(InvalidParameters, "invalid coefficient modulus: %w", err)
	}

	if lit.T == 0 || bitLen(lit.T) > MaxModulusBits {
		return Parameters{}, newError(InvalidParameters, "plain modulus t=%d must be nonzero and <= %d bits", lit.T, MaxModulusBits)
	}

	ringQ, err := ring.NewRNSRing(N, q)
	if err != nil {
		return Parameters{}, newError(InvalidParameters, "cannot build ring Q: %w", err)
	}

	ringQMul, err := newAuxiliaryBase(q, N, lit.LogN)
	if err != nil {
		return Parameters{}, newError(InvalidParameters, "cannot build auxiliary base for multiplication: %w", err)
	}

	sigma := lit.Sigma
	if sigma == 0 {
		sigma = DefaultSigma
	}

	params := Parameters{
		logN:     lit.LogN,
		ringQ:    ringQ,
		ringQMul: ringQMul,
		t:        lit.T,
		sigma:    sigma,
		bound:    6 * sigma,
		usable:   true,
	}

	params.batchingAvailable = factorization.IsPrime(new(big.Int).SetUint64(lit.T)) && lit.T%uint64(2*N) == 1

	params.hash = computeHash(N, q, lit.T, sigma)

	return params, nil
}

// genDistinctPrimesPerSize generates one NTT-friendly prime per requested
// bit size, all distinct, in the order of bitSizes: for each size it takes the
// first prime returned by genNTTFriendlyPrimes that is not already in use.
func genDistinctPrimesPerSize(bitSizes []int, N int) ([]uint64, error) {
	seen := map[uint64]bool{}
	out := make([]uint64, 0, len(bitSizes))
	for _, bits := range bitSizes {
		primes, err := genNTTFriendlyPrimes(bits, len(out)+8, N)
		if err != nil {
			return nil, err
		}
		placed := false
		for _, p := range primes {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
				placed = true
				break
			}
		}
		if !placed {
			return nil, newError(InvalidParameters, "exhausted %d-bit NTT-friendly primes for N=%d", bits, N)
		}
	}
	return out, nil
}

// auxiliaryBaseGuardBits is the extra slack added on top of the minimum
// bit length an auxiliary multiplication base must carry, matching the
// teacher's own heint.NewParameters choice of a comfortably larger-than-
// strictly-necessary QMul (it rounds up to whole primes and adds a log2(N)
// term already; a further fixed guard keeps centered reconstruction correct
// even for the most adversarial rounding of the prime search below).
const auxiliaryBaseGuardBits = 20

// newAuxiliaryBase builds the RNSRing QMul that Evaluator.Multiply extends
// ciphertexts into before forming the exact tensor product (spec.md §4.5's
// RNSBase/BaseConverter component). A degree-(N-1) negacyclic convolution of
// two polynomials with Q-centered coefficients has coefficients bounded by
// N*(Q/2)^2 in absolute value, so reconstructing the exact integer value of
// a tensor coefficient (rather than only its residue mod Q) requires a
// combined modulus Q*QMul strictly larger than twice that bound; this sizes
// QMul to bitlen(Q) + logN + auxiliaryBaseGuardBits bits and fills it with
// NTT-friendly primes disjoint from Q's own.
func newAuxiliaryBase(q []uint64, N, logN int) (ring.RNSRing, error) {
	qBig := new(big.Int).SetUint64(1)
	for _, qi := range q {
		qBig.Mul(qBig, new(big.Int).SetUint64(qi))
	}

	needed := qBig.BitLen() + logN + auxiliaryBaseGuardBits
	nbQMul := (needed + MaxModulusBits - 1) / MaxModulusBits
	if nbQMul < 1 {
		nbQMul = 1
	}

	seen := map[uint64]bool{}
	for _, qi := range q {
		seen[qi] = true
	}

	candidates, err := genNTTFriendlyPrimes(MaxModulusBits, nbQMul+len(q)+8, N)
	if err != nil {
		return nil, err
	}

	qMul := make([]uint64, 0, nbQMul)
	for _, p := range candidates {
		if seen[p] {
			continue
		}
		seen[p] = true
		qMul = append(qMul, p)
		if len(qMul) == nbQMul {
			break
		}
	}
	if len(qMul) < nbQMul {
		return nil, newError(InvalidParameters, "could not find %d NTT-friendly auxiliary primes disjoint from Q", nbQMul)
	}

	return ring.NewRNSRing(N, qMul)
}

func validateModuli(q []uint64, N int) error {
	if len(q) == 0 {
		return newError(InvalidParameters, "empty coefficient modulus")
	}
	seen := map[uint64]bool{}
	for _, qi := range q {
		if seen[qi] {
			return newError(InvalidParameters, "duplicate modulus %d", qi)
		}
		seen[qi] = true
		if bitLen(qi) > MaxModulusBits {
			return newError(InvalidParameters, "modulus %d exceeds %d bits", qi, MaxModulusBits)
		}
		if qi%uint64(2*N) != 1 {
			return newError(InvalidParameters, "modulus %d is not congruent to 1 mod 2N", qi)
		}
		if !factorization.IsPrime(new(big.Int).SetUint64(qi)) {
			return newError(InvalidParameters, "modulus %d is not prime", qi)
		}
	}
	return nil
}

func bitLen(x uint64) int {
	n := 0
	for x != 0 {
		n++
		x >>= 1
	}
	return n
}

func computeHash(N int, q []uint64, t uint64, sigma float64) [32]byte {
	h := sha3.New256()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(N))
	h.Write(buf[:])

	binary.LittleEndian.PutUint64(buf[:], uint64(len(q)))
	h.Write(buf[:])
	for _, qi := range q {
		binary.LittleEndian.PutUint64(buf[:], qi)
		h.Write(buf[:])
	}

	binary.LittleEndian.PutUint64(buf[:], t)
	h.Write(buf[:])

	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(sigma))
	h.Write(buf[:])

	var out [32]byte
	h.Sum(out[:0])
	return out
}

// N returns the ring degree.
func (p Parameters) N() int { return 1 << p.logN }

// LogN returns log2(N).
func (p Parameters) LogN() int { return p.logN }

// T returns the plaintext modulus.
func (p Parameters) T() uint64 { return p.t }

// Sigma returns the error distribution's standard deviation.
func (p Parameters) Sigma() float64 { return p.sigma }

// Bound returns the truncated discrete-Gaussian bound, 6*Sigma.
func (p Parameters) Bound() float64 { return p.bound }

// RingQ returns the ciphertext-coefficient-modulus ring.
func (p Parameters) RingQ() ring.RNSRing { return p.ringQ }

// RingQMul returns the auxiliary RNS base Evaluator.Multiply extends
// ciphertexts into to reconstruct exact (non-wrapped) tensor coefficients
// before rescaling by t/Q, per spec.md §4.5.
func (p Parameters) RingQMul() ring.RNSRing { return p.ringQMul }

// MaxLevel returns the maximum level (ModuliChainLength()-1) of RingQ.
func (p Parameters) MaxLevel() int { return p.ringQ.MaxLevel() }

// QCount returns the number of primes in Q.
func (p Parameters) QCount() int { return p.ringQ.ModuliChainLength() }

// BatchingAvailable reports whether t qualifies for slot-packing batching
// (t prime and t = 1 mod 2N), per spec.md §4.7's qualifier computation.
func (p Parameters) BatchingAvailable() bool { return p.batchingAvailable }

// Usable reports whether this Parameters passed validation. An unusable
// Parameters (the zero value, or one returned alongside a non-nil error)
// makes every operation that checks an object against it (checkCompatible)
// fail with InvalidParameters.
func (p Parameters) Usable() bool { return p.usable }

// Hash returns the 256-bit parameter tag of spec.md §9, a SHA3-256 digest
// of N, the ordered Q, t and sigma. It is attached to every object created
// under these parameters and compared (never field-by-field) on every
// binary operation.
func (p Parameters) Hash() [32]byte { return p.hash }

// checkCompatible returns an InvalidParameters error if p did not pass
// validation, and a ParameterMismatch error unless other carries the
// identical parameter hash as p.
func (p Parameters) checkCompatible(otherHash [32]byte) error {
	if !p.usable {
		return newError(InvalidParameters, "parameters did not pass validation")
	}
	if p.hash != otherHash {
		return newError(ParameterMismatch, "parameter hash mismatch")
	}
	return nil
}

// MaxLazyReductionTerms derives the lazy-reduction accumulation bound for
// relinearization digit decomposition (spec.md §9's Open Question), rather
// than hard-coding the source's "63" figure: for the largest configured
// q_i, each accumulated term is a Montgomery-domain product already reduced
// below 2*q_i, and the running uint64 accumulator must not overflow before
// a reduction step, i.e. M*(2*q_i)^2 < 2^64.
func (p Parameters) MaxLazyReductionTerms() int {
	var maxQ uint64
	for _, qi := range p.ringQ.ModuliChain() {
		if qi > maxQ {
			maxQ = qi
		}
	}
	bound := math.Exp2(64) / math.Pow(float64(2*maxQ), 2)
	if bound < 1 {
		return 1
	}
	return int(bound)
}
