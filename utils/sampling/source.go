// Package sampling provides a seedable cryptographically secure source of
// randomness shared by every sampler in the ring package (uniform, ternary
// and discrete-Gaussian).
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/chacha20"
)

// Seed is a 256-bit seed used to instantiate a deterministic [Source].
type Seed [32]byte

// NewSeed returns a fresh random seed read from the operating system's
// cryptographically secure random number generator.
func NewSeed() (seed [32]byte) {
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		// Sanity check, the OS CSPRNG should never fail.
		panic(err)
	}
	return
}

// Source is a seedable stream of pseudo-random bytes backed by ChaCha20.
// Two [Source] instances created from the same seed produce identical
// streams, which lets callers reproduce a sampling session (e.g. the common
// reference string shared between encryptor and decryptor during a key
// switch) without transmitting the sampled values themselves.
type Source struct {
	seed    [32]byte
	cipher  *chacha20.Cipher
	nonce   [chacha20.NonceSize]byte
	scratch [8]byte
}

// NewSource instantiates a new [Source] from a 256-bit seed.
func NewSource(seed [32]byte) *Source {
	s := &Source{seed: seed}
	s.Reset()
	return s
}

// Reset rewinds the source back to the beginning of its stream.
func (s *Source) Reset() {
	c, err := chacha20.NewUnauthenticatedCipher(s.seed[:], s.nonce[:])
	if err != nil {
		// Sanity check, seed and nonce are fixed-size, this cannot fail.
		panic(err)
	}
	s.cipher = c
}

// Seed returns the seed backing this source.
func (s *Source) Seed() [32]byte {
	return s.seed
}

// Read fills p with pseudo-random bytes. It always returns len(p), nil.
func (s *Source) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Uint64 returns the next 64 bits of the stream. It satisfies the
// math/rand/v2 Source interface, so a [Source] can seed a [math/rand/v2.Rand]
// directly.
func (s *Source) Uint64() uint64 {
	clear(s.scratch[:])
	s.cipher.XORKeyStream(s.scratch[:], s.scratch[:])
	return binary.LittleEndian.Uint64(s.scratch[:])
}
