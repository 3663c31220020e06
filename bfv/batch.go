package bfv

import (
	"github.com/nimble-works/bfv/utils/concurrency"
	"github.com/nimble-works/bfv/utils/sampling"
)

// EncryptBatch encrypts each of pts concurrently using a pool of workers
// Encryptors, each with its own CSPRNG source so that no scratch buffer or
// randomness stream is shared across goroutines. It is a thin convenience
// over the stateful, not-concurrency-safe Encryptor for the common case of
// encrypting many plaintexts at once.
func EncryptBatch(params Parameters, pk *PublicKey, pts []*Plaintext, workers int) ([]*Ciphertext, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(pts) {
		workers = len(pts)
	}
	if workers == 0 {
		return nil, nil
	}

	encryptors := make([]*Encryptor, workers)
	for i := range encryptors {
		enc, err := NewEncryptorWithSource(params, pk, sampling.NewSource(sampling.NewSeed()))
		if err != nil {
			return nil, err
		}
		encryptors[i] = enc
	}

	out := make([]*Ciphertext, len(pts))
	rm := concurrency.NewRessourceManager(encryptors)

	for idx := range pts {
		idx := idx
		rm.Run(func(enc *Encryptor) error {
			ct, err := enc.Encrypt(pts[idx])
			if err != nil {
				return err
			}
			out[idx] = ct
			return nil
		})
	}

	if err := rm.Wait(); err != nil {
		return nil, newError(ArithmeticFailure, "batch encryption failed: %w", err)
	}

	return out, nil
}
