package miner

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/holiman/uint256"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/darkforestry/zero-seeker/internal/config"
	"github.com/darkforestry/zero-seeker/internal/logger"
	"github.com/darkforestry/zero-seeker/pkg/types"
	"github.com/darkforestry/zero-seeker/pkg/worker"
)

// Errors
var (
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrSearchExhausted  = errors.New("max attempts reached without a match")
	ErrNoWorkers        = errors.New("miner needs at least one worker")
)

// Stats holds real-time performance statistics
type Stats struct {
	Attempts    uint64
	HashRate    float64
	ElapsedSecs float64
	HighWater   uint64 // next unclaimed counter offset
}

// Miner coordinates parallel zero-byte searches. Successive searches on the
// same Miner draw counters from one high-water mark, so they never evaluate
// the same counter twice.
type Miner struct {
	config    *config.Config
	logger    *logger.Logger
	start     uint256.Int
	next      atomic.Uint64 // counter offset high-water mark
	attempts  atomic.Uint64
	startTime atomic.Int64 // unix nanos of the first search
}

// NewMiner creates a new miner instance. Workers, StartCounter, MaxAttempts
// and LogInterval are read from cfg.
func NewMiner(cfg *config.Config, log *logger.Logger) (*Miner, error) {
	if cfg.Workers <= 0 {
		return nil, ErrNoWorkers
	}
	start, err := cfg.StartCount()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	m := &Miner{
		config: cfg,
		logger: log,
	}
	m.start.Set(start)
	return m, nil
}

// Mine searches with a throwaway Miner using the default configuration.
func Mine(ctx context.Context, seed []byte, target uint8, leading bool, batchSize int) (*types.Result, error) {
	m, err := NewMiner(config.NewConfig(), nil)
	if err != nil {
		return nil, err
	}
	return m.Mine(ctx, seed, target, types.ModeFromLeading(leading), batchSize)
}

// Mine blocks until a candidate scores at least target in mode. It returns
// ctx.Err() if ctx ends first and ErrSearchExhausted once MaxAttempts
// candidates have been tried. A target above 20 can never be met.
func (m *Miner) Mine(ctx context.Context, seed []byte, target uint8, mode types.Mode, batchSize int) (*types.Result, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}

	m.logger.WithFields(logrus.Fields{
		"target":  target,
		"mode":    mode.String(),
		"batch":   batchSize,
		"workers": m.config.Workers,
	}).Info("Mining started")

	logCtx, stopLog := context.WithCancel(ctx)
	defer stopLog()
	go m.periodicLogger(logCtx, time.Duration(m.config.LogInterval)*time.Second)

	return m.search(ctx, m.workerConfig(seed, target, mode), batchSize, m.config.MaxAttempts)
}

func (m *Miner) workerConfig(seed []byte, target uint8, mode types.Mode) *types.WorkerConfig {
	wc := &types.WorkerConfig{
		Seed:   seed,
		Target: target,
		Mode:   mode,
	}
	wc.BaseCount.Set(&m.start)
	return wc
}

// search runs batches until a match, cancellation, or maxAttempts (0 = none).
func (m *Miner) search(ctx context.Context, wc *types.WorkerConfig, batchSize int, maxAttempts uint64) (*types.Result, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	began := time.Now()
	m.startTime.CompareAndSwap(0, began.UnixNano())
	attemptsBefore := m.attempts.Load()

	// Set once by the winning worker or by cancellation; polled per attempt.
	var stop atomic.Bool
	release := context.AfterFunc(ctx, func() { stop.Store(true) })
	defer release()

	workers := make([]*worker.Worker, m.config.Workers)
	for i := range workers {
		workers[i] = worker.NewWorker(wc, &m.attempts)
	}

	var dispensed uint64
	for {
		size := uint64(batchSize)
		if maxAttempts > 0 {
			if dispensed >= maxAttempts {
				return nil, ErrSearchExhausted
			}
			size = min(size, maxAttempts-dispensed)
		}
		first := m.next.Add(size) - size
		dispensed += size
		batch := worker.NewBatch(first, size)

		var (
			found atomic.Pointer[types.WorkerResult]
			g     errgroup.Group
		)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				if r := w.ProcessBatch(batch, &stop); r != nil && found.CompareAndSwap(nil, r) {
					stop.Store(true)
				}
				return nil
			})
		}
		_ = g.Wait()

		if r := found.Load(); r != nil {
			return m.toResult(wc, r, m.attempts.Load()-attemptsBefore, time.Since(began)), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.logger.WithFields(logrus.Fields{
			"first": first,
			"size":  size,
		}).Debug("Batch complete without match")
	}
}

func (m *Miner) toResult(wc *types.WorkerConfig, r *types.WorkerResult, attempts uint64, elapsed time.Duration) *types.Result {
	res := &types.Result{
		PrivateKey: hex.EncodeToString(r.Key[:]),
		Address:    r.Address,
		Deployer:   r.Deployer,
		Score:      r.Score,
		Attempts:   attempts,
		Duration:   elapsed,
	}
	res.Counter.AddUint64(&wc.BaseCount, r.Offset)
	return res
}

// Stats returns the current performance statistics. Safe for concurrent use.
func (m *Miner) Stats() Stats {
	attempts := m.attempts.Load()

	var elapsed float64
	if started := m.startTime.Load(); started != 0 {
		elapsed = time.Since(time.Unix(0, started)).Seconds()
	}

	var hashRate float64
	if elapsed > 0 {
		hashRate = float64(attempts) / elapsed
	}

	return Stats{
		Attempts:    attempts,
		HashRate:    hashRate,
		ElapsedSecs: elapsed,
		HighWater:   m.next.Load(),
	}
}

// periodicLogger logs mining progress at regular intervals
func (m *Miner) periodicLogger(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := m.Stats()
			m.logger.WithFields(logrus.Fields{
				"attempts":   stats.Attempts,
				"rate":       fmt.Sprintf("%.2f hashes/sec", stats.HashRate),
				"high_water": stats.HighWater,
			}).Info("Progress")
		case <-ctx.Done():
			return
		}
	}
}
