package bfv

import "github.com/nimble-works/bfv/ring"

// Ciphertext is a degree-d BFV ciphertext (c0, c1, ..., cd), all RNS
// polynomials held in NTT form. A fresh encryption or the result of
// Relinearize has degree 1; Multiply/Square without a following
// Relinearize raise the degree.
type Ciphertext struct {
	Value      []ring.RNSPoly
	paramsHash [32]byte
}

// Degree returns len(Value)-1.
func (ct *Ciphertext) Degree() int {
	return len(ct.Value) - 1
}

// NewCiphertext allocates a zero Ciphertext of the given degree under params.
func NewCiphertext(params Parameters, degree int) *Ciphertext {
	ringQ := params.RingQ()
	v := make([]ring.RNSPoly, degree+1)
	for i := range v {
		v[i] = ringQ.NewRNSPoly()
	}
	return &Ciphertext{Value: v, paramsHash: params.Hash()}
}

// CopyNew returns a deep copy of ct.
func (ct *Ciphertext) CopyNew() *Ciphertext {
	v := make([]ring.RNSPoly, len(ct.Value))
	for i := range v {
		v[i] = *ct.Value[i].Clone()
	}
	return &Ciphertext{Value: v, paramsHash: ct.paramsHash}
}
