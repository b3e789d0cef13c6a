package worker

import (
	"errors"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/darkforestry/zero-seeker/internal/crypto"
	"github.com/darkforestry/zero-seeker/pkg/score"
	"github.com/darkforestry/zero-seeker/pkg/types"
)

// Batch hands out each counter offset in [Start, Start+Size) exactly once.
type Batch struct {
	Start   uint64
	Size    uint64
	claimed atomic.Uint64
}

// NewBatch creates a batch of size offsets beginning at start
func NewBatch(start, size uint64) *Batch {
	return &Batch{Start: start, Size: size}
}

// Claim returns the next unclaimed offset, or false once the batch is drained.
func (b *Batch) Claim() (uint64, bool) {
	i := b.claimed.Add(1) - 1
	if i >= b.Size {
		return 0, false
	}
	return b.Start + i, true
}

// Worker evaluates candidates for one goroutine
type Worker struct {
	config   *types.WorkerConfig
	attempts *atomic.Uint64
	keygen   *crypto.KeyGenerator
	deriver  *crypto.Deriver

	// Pre-allocated buffers for performance
	counter  uint256.Int
	key      [crypto.KeyLen]byte
	deployer common.Address
	contract common.Address
}

// NewWorker creates a new worker instance
func NewWorker(config *types.WorkerConfig, attempts *atomic.Uint64) *Worker {
	return &Worker{
		config:   config,
		attempts: attempts,
		keygen:   crypto.NewKeyGenerator(config.Seed),
		deriver:  crypto.NewDeriver(),
	}
}

// Evaluate derives and scores the candidate at offset. Out-of-range private
// keys return crypto.ErrInvalidScalar and count as an attempt.
func (w *Worker) Evaluate(offset uint64) (uint8, error) {
	w.counter.AddUint64(&w.config.BaseCount, offset)
	w.keygen.Next(&w.counter, &w.key)
	w.attempts.Add(1)

	if err := w.deriver.DeployerInto(&w.key, &w.deployer); err != nil {
		return 0, err
	}
	w.deriver.ContractInto(&w.deployer, &w.contract)
	return score.Score(&w.contract, w.config.Mode), nil
}

// ProcessBatch claims offsets from b until it is drained, stop is set, or a
// candidate reaches the target. stop is polled before every attempt.
func (w *Worker) ProcessBatch(b *Batch, stop *atomic.Bool) *types.WorkerResult {
	for !stop.Load() {
		offset, ok := b.Claim()
		if !ok {
			return nil
		}

		s, err := w.Evaluate(offset)
		if errors.Is(err, crypto.ErrInvalidScalar) {
			continue
		}
		if s >= w.config.Target {
			return &types.WorkerResult{
				Key:      w.key,
				Address:  w.contract,
				Deployer: w.deployer,
				Offset:   offset,
				Score:    s,
			}
		}
	}
	return nil
}
