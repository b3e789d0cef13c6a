package miner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/darkforestry/zero-seeker/pkg/types"
)

// fakeTimings returns a measure func driven by a cost curve and records the
// sizes it was asked for.
func fakeTimings(cost func(int) time.Duration, seen *[]int) func(int) (time.Duration, error) {
	return func(size int) (time.Duration, error) {
		*seen = append(*seen, size)
		return cost(size), nil
	}
}

func TestHillClimb(t *testing.T) {
	tests := []struct {
		name string
		cost func(int) time.Duration
		want int
	}{
		{
			name: "optimum between doublings",
			// fastest around 100; 80 measured on the way up, 106 when shrinking from 160
			cost: func(size int) time.Duration {
				d := size - 100
				if d < 0 {
					d = -d
				}
				return time.Duration(d+1) * time.Millisecond
			},
			want: 106,
		},
		{
			name: "larger is always slower",
			cost: func(size int) time.Duration { return time.Duration(size) * time.Millisecond },
			want: MinTuneBatch,
		},
		{
			name: "larger is always faster",
			cost: func(size int) time.Duration { return time.Duration(maxTuneBatch*4/size) * time.Microsecond },
			// grows to 2621440, then the first shrink from 5242880 wins
			want: 3495253,
		},
		{
			name: "flat timings",
			cost: func(int) time.Duration { return time.Second },
			want: MinTuneBatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []int
			got, err := hillClimb(MinTuneBatch, fakeTimings(tt.cost, &seen))
			if err != nil {
				t.Fatalf("hillClimb() error = %v", err)
			}
			if got < MinTuneBatch {
				t.Errorf("hillClimb() = %d below floor %d", got, MinTuneBatch)
			}
			if got != tt.want {
				t.Errorf("hillClimb() = %d, want %d (sampled %v)", got, tt.want, seen)
			}
			if seen[0] != MinTuneBatch {
				t.Errorf("first sample = %d, want %d", seen[0], MinTuneBatch)
			}
		})
	}
}

func TestHillClimbPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := hillClimb(MinTuneBatch, func(int) (time.Duration, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return time.Duration(100-calls) * time.Millisecond, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("hillClimb() error = %v, want %v", err, boom)
	}
}

func TestFindOptimalBatchSizeCancelled(t *testing.T) {
	m := newTestMiner(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.FindOptimalBatchSize(ctx, testSeed, types.Leading); !errors.Is(err, context.Canceled) {
		t.Errorf("FindOptimalBatchSize() error = %v, want %v", err, context.Canceled)
	}
}

func TestFindOptimalBatchSize(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-based tuning runs many searches")
	}
	m := newTestMiner(t, 4)
	size, err := m.FindOptimalBatchSize(context.Background(), testSeed, types.Total)
	if err != nil {
		t.Fatalf("FindOptimalBatchSize() error = %v", err)
	}
	if size < MinTuneBatch {
		t.Errorf("FindOptimalBatchSize() = %d below floor %d", size, MinTuneBatch)
	}
}
