package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Mode selects how zero bytes in a contract address are counted
type Mode int

const (
	// Leading counts the unbroken run of zero bytes starting at byte 0
	Leading Mode = iota
	// Total counts zero bytes anywhere in the address
	Total
)

// ModeFromLeading maps the CLI's leading flag to a Mode
func ModeFromLeading(leading bool) Mode {
	if leading {
		return Leading
	}
	return Total
}

func (m Mode) String() string {
	switch m {
	case Leading:
		return "leading"
	case Total:
		return "total"
	default:
		return "unknown"
	}
}

// Result represents a successful search
type Result struct {
	PrivateKey string // hex-encoded, no 0x prefix
	Address    common.Address
	Deployer   common.Address
	Counter    uint256.Int
	Score      uint8
	Attempts   uint64
	Duration   time.Duration
}

// WorkerConfig contains the per-search parameters shared by all workers
type WorkerConfig struct {
	Seed      []byte
	Target    uint8
	Mode      Mode
	BaseCount uint256.Int // counter value of offset 0
}

// WorkerResult represents a qualifying candidate found by a single worker
type WorkerResult struct {
	Key      [32]byte
	Address  common.Address
	Deployer common.Address
	Offset   uint64 // counter offset relative to WorkerConfig.BaseCount
	Score    uint8
}
