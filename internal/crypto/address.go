package crypto

import (
	"errors"
	"fmt"
	"hash"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

const (
	// PubkeyCoordLen is X||Y of an uncompressed public key without its 0x04 prefix
	PubkeyCoordLen = 64

	// CREATE input for nonce 0: list header (1) + string header (1) + address (20) + empty string (1) = 23
	CreateAddrOffset = 2
	CreateInputLen   = CreateAddrOffset + common.AddressLength + 1
)

// ErrInvalidScalar is returned when a private key candidate is zero or not
// below the secp256k1 group order.
var ErrInvalidScalar = errors.New("private key outside secp256k1 scalar range")

// createFrame is RLP([zero address, 0]); the address is patched in per call.
var createFrame = mustCreateFrame()

func mustCreateFrame() [CreateInputLen]byte {
	enc, err := rlp.EncodeToBytes([]interface{}{common.Address{}, uint64(0)})
	if err != nil {
		panic(fmt.Sprintf("rlp encode create frame: %v", err))
	}
	if len(enc) != CreateInputLen {
		panic(fmt.Sprintf("unexpected create frame length %d, want %d", len(enc), CreateInputLen))
	}
	var frame [CreateInputLen]byte
	copy(frame[:], enc)
	return frame
}

// keccakState is implemented by the legacy Keccak hasher in x/crypto/sha3.
// Read squeezes the digest without allocating.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// Deriver computes deployer and contract addresses with reused buffers.
// It is not safe for concurrent use; give each worker its own.
type Deriver struct {
	hasher keccakState
	scalar secp256k1.ModNScalar
	point  secp256k1.JacobianPoint

	// Pre-allocated buffers for the hot path
	pubBuf   [PubkeyCoordLen]byte
	frameBuf [CreateInputLen]byte
	hashBuf  [32]byte
}

// NewDeriver creates a Deriver
func NewDeriver() *Deriver {
	return &Deriver{
		hasher:   sha3.NewLegacyKeccak256().(keccakState),
		frameBuf: createFrame,
	}
}

// DeployerInto derives the account address controlled by key and writes it
// to out. Returns ErrInvalidScalar if key is zero or >= N.
func (d *Deriver) DeployerInto(key *[KeyLen]byte, out *common.Address) error {
	if overflow := d.scalar.SetByteSlice(key[:]); overflow || d.scalar.IsZero() {
		return ErrInvalidScalar
	}

	secp256k1.ScalarBaseMultNonConst(&d.scalar, &d.point)
	d.point.ToAffine()
	d.point.X.PutBytesUnchecked(d.pubBuf[:32])
	d.point.Y.PutBytesUnchecked(d.pubBuf[32:])

	d.keccakInto(d.pubBuf[:], out)
	return nil
}

// ContractInto writes the CREATE address of deployer at nonce 0 to out.
func (d *Deriver) ContractInto(deployer *common.Address, out *common.Address) {
	copy(d.frameBuf[CreateAddrOffset:CreateAddrOffset+common.AddressLength], deployer[:])
	d.keccakInto(d.frameBuf[:], out)
}

// keccakInto hashes data and keeps the low 20 bytes.
func (d *Deriver) keccakInto(data []byte, out *common.Address) {
	d.hasher.Reset()
	d.hasher.Write(data)
	d.hasher.Read(d.hashBuf[:])
	copy(out[:], d.hashBuf[12:])
}

// DeployerAddress derives the account address for key.
func DeployerAddress(key [KeyLen]byte) (common.Address, error) {
	var addr common.Address
	if err := NewDeriver().DeployerInto(&key, &addr); err != nil {
		return common.Address{}, err
	}
	return addr, nil
}

// ContractAddress returns the address of the first contract deployed by deployer.
func ContractAddress(deployer common.Address) common.Address {
	var addr common.Address
	NewDeriver().ContractInto(&deployer, &addr)
	return addr
}
