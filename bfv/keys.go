package bfv

import (
	"github.com/nimble-works/bfv/ring"
)

// SecretKey is the secret key s, a ternary polynomial kept in NTT form
// across its full RNS base (spec.md §4.1's KeyMaterial).
type SecretKey struct {
	Value      ring.RNSPoly
	paramsHash [32]byte
}

// Equal reports whether sk and other hold the identical secret, under
// identical parameters.
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if sk.paramsHash != other.paramsHash {
		return false
	}
	return sk.Value.Equal(&other.Value)
}

// PublicKey is the public encryption key (p0, p1) with p0 = -a*s+e, p1 = a,
// both in NTT form.
type PublicKey struct {
	P0, P1     ring.RNSPoly
	paramsHash [32]byte
}

// Equal reports whether pk and other hold the identical key material.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk.paramsHash != other.paramsHash {
		return false
	}
	return pk.P0.Equal(&other.P0) && pk.P1.Equal(&other.P1)
}

// gadgetRow is one row of a gadget (key-switching) vector: a ciphertext-like
// pair (A, B) publishing an encryption of a scaled secret under SecretKey,
// plus the RNS component and digit this row decomposes.
type gadgetRow struct {
	primeIndex int
	digit      int
	A, B       ring.RNSPoly
}

// gadgetVector is a per-prime base-2^LogBase digit decomposition
// key-switching key of spec.md §4.4: for every RNS prime q_i it publishes
// ceil(bitlen(q_i)/LogBase) rows, each encrypting B^j (embedded only in
// component i, zero elsewhere) times the switching key under SecretKey.
// This decomposes entirely within each RNS component independently, unlike
// the teacher's hybrid/auxiliary-modulus Decomposer, which cross-mixes
// primes through an extra special modulus; see DESIGN.md for why that
// construction was not reused here.
type gadgetVector struct {
	LogBase int
	Rows    []gadgetRow
}

// EvaluationKeys holds the relinearization keys indexed by the secret-key
// power they switch back down to degree 1, e.g. Keys[2] switches s^2 back
// to a linear ciphertext, Keys[3] switches s^3, and so on up to whatever
// maximum degree KeyGenerator.GenEvaluationKeys was asked to support.
type EvaluationKeys struct {
	Keys       map[int]*gadgetVector
	paramsHash [32]byte
}

// GaloisKeys holds one gadget key-switching vector per requested Galois
// automorphism element, keyed by that element.
type GaloisKeys struct {
	Keys       map[uint64]*gadgetVector
	paramsHash [32]byte
}

// HasKey reports whether a relinearization key for s^degree is present.
func (ek *EvaluationKeys) HasKey(degree int) bool {
	if ek == nil || ek.Keys == nil {
		return false
	}
	_, ok := ek.Keys[degree]
	return ok
}

// HasGaloisKey reports whether a key for Galois element el is present.
func (gk *GaloisKeys) HasGaloisKey(el uint64) bool {
	if gk == nil || gk.Keys == nil {
		return false
	}
	_, ok := gk.Keys[el]
	return ok
}
