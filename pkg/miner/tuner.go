package miner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/darkforestry/zero-seeker/pkg/types"
)

const (
	// MinTuneBatch is where the tuner starts and the smallest size it returns
	MinTuneBatch = 10
	// maxTuneBatch caps the doubling phase
	maxTuneBatch = 1 << 22
	tuneShrink   = 1.5

	// Easy targets so each timing sample finishes quickly
	tuneLeadingTarget = 2
	tuneTotalTarget   = 3
)

// FindOptimalBatchSize times searches for an easy target at varying batch
// sizes and returns the fastest size seen. The result depends on timing noise
// and is a heuristic, not a stable value.
func (m *Miner) FindOptimalBatchSize(ctx context.Context, seed []byte, mode types.Mode) (int, error) {
	target := uint8(tuneTotalTarget)
	if mode == types.Leading {
		target = tuneLeadingTarget
	}
	wc := m.workerConfig(seed, target, mode)

	measure := func(size int) (time.Duration, error) {
		began := time.Now()
		if _, err := m.search(ctx, wc, size, 0); err != nil {
			return 0, err
		}
		elapsed := time.Since(began)
		m.logger.WithFields(logrus.Fields{
			"batch":   size,
			"elapsed": elapsed,
		}).Debug("Tuning sample")
		return elapsed, nil
	}

	best, err := hillClimb(MinTuneBatch, measure)
	if err != nil {
		return 0, err
	}
	m.logger.WithField("batch", best).Info("Tuned batch size")
	return best, nil
}

// hillClimb doubles size while measure keeps improving, then shrinks by
// tuneShrink from the first size that got slower until it drops below the
// best size.
func hillClimb(start int, measure func(int) (time.Duration, error)) (int, error) {
	best := start
	bestTime, err := measure(best)
	if err != nil {
		return 0, err
	}

	size := best * 2
	for size <= maxTuneBatch {
		d, err := measure(size)
		if err != nil {
			return 0, err
		}
		if d >= bestTime {
			break
		}
		best, bestTime = size, d
		size *= 2
	}

	for {
		size = int(float64(size) / tuneShrink)
		if size < best {
			break
		}
		if size == best {
			continue
		}
		d, err := measure(size)
		if err != nil {
			return 0, err
		}
		if d < bestTime {
			best, bestTime = size, d
		}
	}
	return best, nil
}
