package sampling

import (
	"golang.org/x/crypto/chacha20"
)

// deterministicPRNG is a seeded, reproducible keystream used only by
// NewSeededSource. It is a thin wrapper around ChaCha20 run as a stream
// cipher over an all-zero plaintext, which turns it into a fast, seekable
// PRNG without reaching for math/rand's weaker generator.
type deterministicPRNG struct {
	cipher *chacha20.Cipher
}

func newDeterministicPRNG(seed [32]byte) *deterministicPRNG {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// Only fails on bad key/nonce sizes, which are fixed-size arrays here.
		panic(err)
	}
	return &deterministicPRNG{cipher: c}
}

func (p *deterministicPRNG) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	p.cipher.XORKeyStream(b, b)
	return len(b), nil
}
