package bfv

import (
	"testing"

	"github.com/nimble-works/bfv/utils/sampling"
	"github.com/stretchr/testify/require"
)

func testParams(t *testing.T) Parameters {
	params, err := NewParameters(ParametersLiteral{
		LogN:  10,
		Q:     []uint64{0xffffee001, 0xffffc4001},
		T:     65537,
		Sigma: DefaultSigma,
	})
	require.NoError(t, err)
	require.True(t, params.Usable())
	return params
}

func fixedSource() *sampling.Source {
	return sampling.NewSource([32]byte{1})
}

func genKeys(t *testing.T, params Parameters) (*SecretKey, *PublicKey, *KeyGenerator) {
	kg := NewKeyGeneratorWithSource(params, fixedSource())
	sk, err := kg.GenSecretKey()
	require.NoError(t, err)
	pk, err := kg.GenPublicKey(sk)
	require.NoError(t, err)
	return sk, pk, kg
}

func encryptMessage(t *testing.T, params Parameters, pk *PublicKey, coeffs []uint64) *Ciphertext {
	pt := NewPlaintext(params)
	require.NoError(t, pt.SetCoefficients(params, coeffs))

	enc, err := NewEncryptorWithSource(params, pk, fixedSource())
	require.NoError(t, err)

	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)
	return ct
}

func TestEncryptDecrypt(t *testing.T) {
	params := testParams(t)
	sk, pk, _ := genKeys(t, params)

	coeffs := make([]uint64, params.N())
	for i := range coeffs {
		coeffs[i] = uint64(i) % params.T()
	}

	ct := encryptMessage(t, params, pk, coeffs)

	dec, err := NewDecryptor(params, sk)
	require.NoError(t, err)

	pt, err := dec.Decrypt(ct)
	require.NoError(t, err)
	require.Equal(t, coeffs, pt.Coefficients(params))
}

func TestInvariantNoiseBudgetDecreasesWithDegree(t *testing.T) {
	params := testParams(t)
	sk, pk, kg := genKeys(t, params)

	coeffs := make([]uint64, params.N())
	coeffs[0] = 3

	ct := encryptMessage(t, params, pk, coeffs)

	dec, err := NewDecryptor(params, sk)
	require.NoError(t, err)

	fresh, err := dec.InvariantNoiseBudget(ct)
	require.NoError(t, err)
	require.Greater(t, fresh, 0.0)

	rlk, err := kg.GenEvaluationKeys(sk, 2, DefaultLogBase)
	require.NoError(t, err)

	ev := NewEvaluator(params, rlk, nil)

	sq, err := ev.Multiply(ct, ct)
	require.NoError(t, err)
	require.Equal(t, 2, sq.Degree())

	relin, err := ev.Relinearize(sq)
	require.NoError(t, err)
	require.Equal(t, 1, relin.Degree())

	afterMul, err := dec.InvariantNoiseBudget(relin)
	require.NoError(t, err)
	require.Less(t, afterMul, fresh)

	expect := make([]uint64, params.N())
	expect[0] = (3 * 3) % params.T()

	pt, err := dec.Decrypt(relin)
	require.NoError(t, err)
	require.Equal(t, expect, pt.Coefficients(params))
}

func TestAddSubNegate(t *testing.T) {
	params := testParams(t)
	sk, pk, _ := genKeys(t, params)
	dec, err := NewDecryptor(params, sk)
	require.NoError(t, err)
	ev := NewEvaluator(params, nil, nil)

	a := make([]uint64, params.N())
	b := make([]uint64, params.N())
	a[0], a[1] = 10, 20
	b[0], b[1] = 5, 7

	ctA := encryptMessage(t, params, pk, a)
	ctB := encryptMessage(t, params, pk, b)

	sum, err := ev.Add(ctA, ctB)
	require.NoError(t, err)
	ptSum, err := dec.Decrypt(sum)
	require.NoError(t, err)
	require.Equal(t, uint64(15), ptSum.Coefficients(params)[0])
	require.Equal(t, uint64(27), ptSum.Coefficients(params)[1])

	diff, err := ev.Sub(ctA, ctB)
	require.NoError(t, err)
	ptDiff, err := dec.Decrypt(diff)
	require.NoError(t, err)
	require.Equal(t, uint64(5), ptDiff.Coefficients(params)[0])
	require.Equal(t, uint64(13), ptDiff.Coefficients(params)[1])

	negA, err := ev.Negate(ctA)
	require.NoError(t, err)
	ptNeg, err := dec.Decrypt(negA)
	require.NoError(t, err)
	require.Equal(t, (params.T()-10)%params.T(), ptNeg.Coefficients(params)[0])
}

// applyGaloisPlain is an independent reference implementation of the
// automorphism x -> x^el mod (x^N+1), applied directly to plaintext
// coefficients mod t, mirroring galois.go's applyGaloisNTT index mapping
// without sharing its code, so the test can catch a broken mapping rather
// than merely confirming the call succeeds.
func applyGaloisPlain(coeffs []uint64, el, t uint64) []uint64 {
	N := uint64(len(coeffs))
	mod2N := 2 * N
	out := make([]uint64, N)
	for j, c := range coeffs {
		jg := (uint64(j) * el) % mod2N
		if jg < N {
			out[jg] = (out[jg] + c) % t
		} else {
			out[jg-N] = (out[jg-N] + (t-c%t)%t) % t
		}
	}
	return out
}

func TestApplyGaloisRowRotation(t *testing.T) {
	params := testParams(t)
	sk, pk, kg := genKeys(t, params)
	dec, err := NewDecryptor(params, sk)
	require.NoError(t, err)

	el := GaloisElementForRowRotation(params.N(), 1)
	gk, err := kg.GenGaloisKeys(sk, []uint64{el}, DefaultLogBase)
	require.NoError(t, err)

	ev := NewEvaluator(params, nil, gk)

	coeffs := make([]uint64, params.N())
	coeffs[0] = 42
	coeffs[1] = 7
	coeffs[2] = 99

	ct := encryptMessage(t, params, pk, coeffs)

	rotated, err := ev.ApplyGalois(ct, el)
	require.NoError(t, err)

	pt, err := dec.Decrypt(rotated)
	require.NoError(t, err)

	want := applyGaloisPlain(coeffs, el, params.T())
	require.Equal(t, want, pt.Coefficients(params))
}

func TestParameterMismatchRejected(t *testing.T) {
	params1 := testParams(t)
	params2, err := NewParameters(ParametersLiteral{
		LogN:  10,
		Q:     []uint64{0xffffee001, 0xffffc4001},
		T:     12289,
		Sigma: DefaultSigma,
	})
	require.NoError(t, err)

	sk1, pk1, _ := genKeys(t, params1)
	_ = pk1

	sk2, _, _ := genKeys(t, params2)

	_, err = NewDecryptor(params1, sk2)
	require.Error(t, err)

	var bfvErr *Error
	require.ErrorAs(t, err, &bfvErr)
	require.Equal(t, ParameterMismatch, bfvErr.Kind)

	_ = sk1
}

func TestInvalidParameters(t *testing.T) {
	_, err := NewParameters(ParametersLiteral{LogN: 3, T: 65537})
	require.Error(t, err)

	_, err = NewParameters(ParametersLiteral{LogN: 10, Q: []uint64{4}, T: 65537})
	require.Error(t, err)

	_, err = NewParameters(ParametersLiteral{LogN: 10, Q: []uint64{0xffffee001, 0xffffc4001}, T: 0})
	require.Error(t, err)
}

func TestParametersLiteralEqual(t *testing.T) {
	a := ParametersLiteral{LogN: 10, Q: []uint64{0xffffee001, 0xffffc4001}, T: 65537, Sigma: DefaultSigma}
	b := ParametersLiteral{LogN: 10, Q: []uint64{0xffffee001, 0xffffc4001}, T: 65537, Sigma: DefaultSigma}
	c := ParametersLiteral{LogN: 10, Q: []uint64{0xffffee001, 0xffffc4001}, T: 12289, Sigma: DefaultSigma}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestEncryptBatch(t *testing.T) {
	params := testParams(t)
	_, pk, _ := genKeys(t, params)

	pts := make([]*Plaintext, 5)
	for i := range pts {
		pt := NewPlaintext(params)
		coeffs := make([]uint64, params.N())
		coeffs[0] = uint64(i + 1)
		require.NoError(t, pt.SetCoefficients(params, coeffs))
		pts[i] = pt
	}

	cts, err := EncryptBatch(params, pk, pts, 3)
	require.NoError(t, err)
	require.Len(t, cts, len(pts))
	for _, ct := range cts {
		require.NotNil(t, ct)
	}
}
