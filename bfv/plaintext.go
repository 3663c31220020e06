package bfv

import (
	"math/big"

	"github.com/nimble-works/bfv/ring"
)

// Plaintext holds a single RNS polynomial carrying the raw, unscaled message
// coefficients in [0, t); the Q/t scaling is applied by Encrypt, AddPlain
// and SubPlain (spec.md §4.3's Encode/Decode live outside this core).
type Plaintext struct {
	Value      ring.RNSPoly
	paramsHash [32]byte
}

// NewPlaintext allocates a zero Plaintext under params, at the full RNS
// level (BFV never drops levels: every ciphertext is scaled by the same
// Q/t at every operation).
func NewPlaintext(params Parameters) *Plaintext {
	return &Plaintext{Value: params.RingQ().NewRNSPoly(), paramsHash: params.Hash()}
}

// SetCoefficients loads coeffs (each reduced mod t) as the plaintext
// polynomial, broadcasting them as small integers across every RNS
// component of Value.
func (pt *Plaintext) SetCoefficients(params Parameters, coeffs []uint64) error {
	N := params.RingQ().N()
	if len(coeffs) > N {
		return newError(InvalidSize, "plaintext has %d coefficients, ring degree is %d", len(coeffs), N)
	}

	t := params.T()
	ringQ := params.RingQ()
	for i, qi := range ringQ.ModuliChain() {
		comp := pt.Value.At(i)
		for j := range comp {
			if j < len(coeffs) {
				if coeffs[j] >= t {
					return newError(InvalidPlaintext, "coefficient %d out of range [0, %d)", coeffs[j], t)
				}
				comp[j] = coeffs[j] % qi
			} else {
				comp[j] = 0
			}
		}
	}
	return nil
}

// Coefficients reads back the plaintext's coefficients in [0, t), using
// the first RNS component directly: since every coefficient was stored as
// a literal value < t <= q_0, no CRT reconstruction is needed.
func (pt *Plaintext) Coefficients(params Parameters) []uint64 {
	comp := pt.Value.At(0)
	out := make([]uint64, len(comp))
	copy(out, comp)
	return out
}

// qDivT returns floor(Q/t), used by Encryptor to scale a plaintext into
// ciphertext space.
func qDivT(params Parameters) *big.Int {
	Q := params.RingQ().Modulus()
	t := new(big.Int).SetUint64(params.T())
	out := new(big.Int)
	out.Div(Q, t)
	return out
}
