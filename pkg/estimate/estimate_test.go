package estimate

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/darkforestry/zero-seeker/pkg/types"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestExpectedAttempts(t *testing.T) {
	tests := []struct {
		name   string
		target int
		mode   types.Mode
		want   float64
	}{
		{"leading zero target", 0, types.Leading, 1},
		{"leading one byte", 1, types.Leading, 256},
		{"leading two bytes", 2, types.Leading, 65536},
		{"leading twenty bytes", 20, types.Leading, math.Pow(256, 20)},
		{"total zero target", 0, types.Total, 1.0814232378670277},
		{"total one byte", 1, types.Total, 13.788146282804602},
		{"total two bytes", 2, types.Total, 370.1028739068604},
		{"total three bytes", 3, types.Total, 15729.372141041567},
		{"total twenty bytes", 20, types.Total, 1.461501637330903e+48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpectedAttempts(tt.target, tt.mode)
			if err != nil {
				t.Fatalf("ExpectedAttempts() error = %v", err)
			}
			if !approxEqual(got, tt.want) {
				t.Errorf("ExpectedAttempts(%d, %s) = %v, want %v", tt.target, tt.mode, got, tt.want)
			}
		})
	}
}

func TestExpectedAttemptsExactlyOneForZeroLeading(t *testing.T) {
	got, err := ExpectedAttempts(0, types.Leading)
	if err != nil || got != 1 {
		t.Errorf("ExpectedAttempts(0, leading) = %v, %v; want 1, nil", got, err)
	}
}

func TestExpectedAttemptsStrictlyIncreasing(t *testing.T) {
	for _, mode := range []types.Mode{types.Leading, types.Total} {
		prev := 0.0
		for k := 0; k <= AddressBytes; k++ {
			got, err := ExpectedAttempts(k, mode)
			if err != nil {
				t.Fatalf("%s k=%d: %v", mode, k, err)
			}
			if got <= prev {
				t.Errorf("%s: ExpectedAttempts(%d) = %v not above ExpectedAttempts(%d) = %v", mode, k, got, k-1, prev)
			}
			prev = got
		}
	}
}

func TestExpectedAttemptsDegenerate(t *testing.T) {
	for _, target := range []int{-1, 21, 255} {
		for _, mode := range []types.Mode{types.Leading, types.Total} {
			if _, err := ExpectedAttempts(target, mode); !errors.Is(err, ErrDegenerateProbability) {
				t.Errorf("ExpectedAttempts(%d, %s) error = %v, want %v", target, mode, err, ErrDegenerateProbability)
			}
		}
	}
	if _, err := TailProbability(21); !errors.Is(err, ErrDegenerateProbability) {
		t.Errorf("TailProbability(21) error = %v, want %v", err, ErrDegenerateProbability)
	}
}

// The point probability never exceeds the at-least tail, and they agree at 20.
func TestPointProbabilityBelowTail(t *testing.T) {
	for k := 0; k <= AddressBytes; k++ {
		point, err := Probability(k, types.Total)
		if err != nil {
			t.Fatal(err)
		}
		tail, err := TailProbability(k)
		if err != nil {
			t.Fatal(err)
		}
		if point.Cmp(tail) > 0 {
			t.Errorf("k=%d: point %v above tail %v", k, point, tail)
		}
	}

	tail, _ := TailProbability(0)
	if f, _ := tail.Float64(); !approxEqual(f, 1) {
		t.Errorf("TailProbability(0) = %v, want 1", f)
	}
	point, _ := Probability(AddressBytes, types.Total)
	tail, _ = TailProbability(AddressBytes)
	if point.Cmp(tail) != 0 {
		t.Errorf("k=20: point %v != tail %v", point, tail)
	}
}

func TestProjectSeconds(t *testing.T) {
	got, err := ProjectSeconds(2*time.Second, 2, 4, types.Leading)
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.0 * 65536; !approxEqual(got, want) {
		t.Errorf("ProjectSeconds() = %v, want %v", got, want)
	}

	if _, err := ProjectSeconds(time.Second, 2, 21, types.Total); !errors.Is(err, ErrDegenerateProbability) {
		t.Errorf("ProjectSeconds(target 21) error = %v", err)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0, "0 days, 0 hours, 0 minutes, and 0 seconds"},
		{59.9, "0 days, 0 hours, 0 minutes, and 59 seconds"},
		{3661, "0 days, 1 hours, 1 minutes, and 1 seconds"},
		{90061, "1 days, 1 hours, 1 minutes, and 1 seconds"},
		{-5, "0 days, 0 hours, 0 minutes, and 0 seconds"},
		{math.Inf(1), "forever"},
	}
	for _, tt := range tests {
		if got := FormatSeconds(tt.secs); got != tt.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
