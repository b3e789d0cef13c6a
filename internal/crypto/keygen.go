package crypto

import (
	"encoding/binary"
	"hash"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

const (
	// CounterLen is the width of the little-endian counter appended to the seed
	CounterLen = 16
	// KeyLen is the size of a private key candidate
	KeyLen = 32
)

// KeyGenerator turns (seed, counter) pairs into private key candidates.
// It reuses its hasher and counter buffer; one generator per goroutine.
type KeyGenerator struct {
	hasher hash.Hash
	seed   []byte
	ctrBuf [CounterLen]byte
}

// NewKeyGenerator creates a generator bound to seed. The seed is not copied
// and must not be modified while the generator is in use.
func NewKeyGenerator(seed []byte) *KeyGenerator {
	return &KeyGenerator{
		hasher: sha3.New256(),
		seed:   seed,
	}
}

// Next writes SHA3-256(seed || le128(counter)) into dst.
func (g *KeyGenerator) Next(counter *uint256.Int, dst *[KeyLen]byte) {
	PutCounter(g.ctrBuf[:], counter)
	g.hasher.Reset()
	g.hasher.Write(g.seed)
	g.hasher.Write(g.ctrBuf[:])
	g.hasher.Sum(dst[:0])
}

// GenerateCandidate is the one-shot form of KeyGenerator.Next.
func GenerateCandidate(seed []byte, counter *uint256.Int) [KeyLen]byte {
	var key [KeyLen]byte
	NewKeyGenerator(seed).Next(counter, &key)
	return key
}

// PutCounter encodes the low 128 bits of c into dst as little-endian bytes.
// dst must be at least CounterLen bytes.
func PutCounter(dst []byte, c *uint256.Int) {
	binary.LittleEndian.PutUint64(dst[0:8], c[0])
	binary.LittleEndian.PutUint64(dst[8:16], c[1])
}
