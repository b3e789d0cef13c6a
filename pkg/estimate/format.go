package estimate

import (
	"fmt"
	"math"
	"time"

	"github.com/darkforestry/zero-seeker/pkg/types"
)

// ProjectSeconds scales a measured calibration run to the target difficulty:
// elapsed * E[target] / E[calibration]. The result is in seconds and may
// exceed what time.Duration can hold.
func ProjectSeconds(elapsed time.Duration, calibration, target int, mode types.Mode) (float64, error) {
	base, err := ExpectedAttempts(calibration, mode)
	if err != nil {
		return 0, fmt.Errorf("calibration target: %w", err)
	}
	want, err := ExpectedAttempts(target, mode)
	if err != nil {
		return 0, fmt.Errorf("search target: %w", err)
	}
	return elapsed.Seconds() * want / base, nil
}

// FormatSeconds renders a (possibly astronomical) number of seconds as
// "D days, H hours, M minutes, and S seconds".
func FormatSeconds(secs float64) string {
	if math.IsInf(secs, 0) || math.IsNaN(secs) {
		return "forever"
	}
	secs = math.Floor(math.Max(secs, 0))
	days := math.Floor(secs / 86400)
	rem := secs - days*86400
	hours := math.Floor(rem / 3600)
	rem -= hours * 3600
	minutes := math.Floor(rem / 60)
	seconds := rem - minutes*60
	return fmt.Sprintf("%.0f days, %.0f hours, %.0f minutes, and %.0f seconds", days, hours, minutes, seconds)
}
