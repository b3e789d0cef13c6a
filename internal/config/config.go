package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// MinSeedLength is the shortest entropy seed accepted from the user
	MinSeedLength = 32
	// MaxZeroBytes is the length of an address
	MaxZeroBytes = 20

	// EnvPrefix namespaces environment overrides, e.g. ZERO_SEEKER_SEED
	EnvPrefix = "ZERO_SEEKER"
)

// Errors
var (
	ErrSeedTooShort       = fmt.Errorf("seed must be at least %d characters", MinSeedLength)
	ErrZeroBytesRange     = fmt.Errorf("zero bytes must be between 0 and %d", MaxZeroBytes)
	ErrNegativeBatchSize  = errors.New("batch size must not be negative")
	ErrNoWorkers          = errors.New("workers must be positive")
	ErrInvalidStartCount  = errors.New("start counter must be a decimal integer below 2^128")
	ErrNegativeTimeout    = errors.New("timeout must not be negative")
	ErrInvalidLogInterval = errors.New("log interval must be positive")
)

// Config holds the application configuration
type Config struct {
	Seed         string
	ZeroBytes    int
	Leading      bool
	BatchSize    int // 0 selects the tuner
	Workers      int
	StartCounter string // decimal, may exceed 64 bits
	MaxAttempts  uint64 // 0 means unbounded
	Timeout      time.Duration
	SkipEstimate bool
	Verbose      bool
	LogFile      string
	LogLevel     string
	LogInterval  int // Logging interval in seconds
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Workers:      runtime.NumCPU(),
		StartCounter: "0",
		LogLevel:     "info",
		LogInterval:  5, // Default 5 seconds
	}
}

// BindFlags registers every option on fs with the defaults from NewConfig
// and binds them into v, which also reads ZERO_SEEKER_* environment variables.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	d := NewConfig()

	fs.StringP("seed", "s", d.Seed, "Entropy seed (at least 32 characters)")
	fs.IntP("zero-bytes", "z", d.ZeroBytes, "Desired number of zero bytes (0-20)")
	fs.BoolP("leading", "l", d.Leading, "Count only leading zero bytes instead of total")
	fs.IntP("batch-size", "b", d.BatchSize, "Candidates per coordination round (0 = tune automatically)")
	fs.IntP("workers", "w", d.Workers, "Number of worker goroutines")
	fs.String("start-counter", d.StartCounter, "First counter value to search from")
	fs.Uint64("max-attempts", d.MaxAttempts, "Give up after this many attempts (0 = unbounded)")
	fs.Duration("timeout", d.Timeout, "Give up after this long (0 = no timeout)")
	fs.Bool("skip-estimate", d.SkipEstimate, "Skip the calibration run used to estimate search time")
	fs.BoolP("verbose", "v", d.Verbose, "Verbose output")
	fs.String("log-file", d.LogFile, "Log file for progress tracking (default: stdout)")
	fs.String("log-level", d.LogLevel, "Log level: debug, info, warn, error")
	fs.IntP("log-interval", "i", d.LogInterval, "Progress logging interval in seconds")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v.BindPFlags(fs)
}

// Load materialises a Config from v after BindFlags.
func Load(v *viper.Viper) *Config {
	return &Config{
		Seed:         v.GetString("seed"),
		ZeroBytes:    v.GetInt("zero-bytes"),
		Leading:      v.GetBool("leading"),
		BatchSize:    v.GetInt("batch-size"),
		Workers:      v.GetInt("workers"),
		StartCounter: v.GetString("start-counter"),
		MaxAttempts:  v.GetUint64("max-attempts"),
		Timeout:      v.GetDuration("timeout"),
		SkipEstimate: v.GetBool("skip-estimate"),
		Verbose:      v.GetBool("verbose"),
		LogFile:      v.GetString("log-file"),
		LogLevel:     v.GetString("log-level"),
		LogInterval:  v.GetInt("log-interval"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Seed) < MinSeedLength {
		return ErrSeedTooShort
	}
	if c.ZeroBytes < 0 || c.ZeroBytes > MaxZeroBytes {
		return fmt.Errorf("%w: got %d", ErrZeroBytesRange, c.ZeroBytes)
	}
	if c.BatchSize < 0 {
		return ErrNegativeBatchSize
	}
	if c.Workers <= 0 {
		return ErrNoWorkers
	}
	if _, err := c.StartCount(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return ErrNegativeTimeout
	}
	if c.LogInterval <= 0 {
		return ErrInvalidLogInterval
	}
	return nil
}

// StartCount parses StartCounter.
func (c *Config) StartCount() (*uint256.Int, error) {
	s := c.StartCounter
	if s == "" {
		s = "0"
	}
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStartCount, err)
	}
	if n.BitLen() > 128 {
		return nil, ErrInvalidStartCount
	}
	return n, nil
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	if c.Leading {
		return fmt.Sprintf("%d leading zero bytes", c.ZeroBytes)
	}
	return fmt.Sprintf("%d total zero bytes", c.ZeroBytes)
}
