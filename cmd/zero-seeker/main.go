package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darkforestry/zero-seeker/internal/config"
	logpkg "github.com/darkforestry/zero-seeker/internal/logger"
	"github.com/darkforestry/zero-seeker/pkg/estimate"
	minerpkg "github.com/darkforestry/zero-seeker/pkg/miner"
	"github.com/darkforestry/zero-seeker/pkg/types"
)

// calibrationZeroBytes is the easy target timed to project the real search
const calibrationZeroBytes = 2

var (
	v      = viper.New()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "zero-seeker",
		Short: "Search for a deployer key whose first contract address has many zero bytes",
		Long: `A command line utility for mining deployer private keys.
Candidate keys are derived deterministically from an entropy seed; the search
stops at the first key whose nonce-0 CREATE address has the requested number
of leading or total zero bytes.`,
		SilenceUsage: true,
		RunE:         runSeeker,
	}

	if err := config.BindFlags(rootCmd.Flags(), v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSeeker(cmd *cobra.Command, args []string) error {
	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Infof("Starting zero-seeker with %d workers...", cfg.Workers)
	logger.Infof("Target: %s", cfg.GetTargetDescription())

	// Ctrl+C and --timeout both end the search through the context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	miner, err := minerpkg.NewMiner(cfg, logger)
	if err != nil {
		return err
	}
	seed := []byte(cfg.Seed)
	mode := types.ModeFromLeading(cfg.Leading)

	batchSize := cfg.BatchSize
	if batchSize == 0 {
		logger.Info("Tuning batch size...")
		if batchSize, err = miner.FindOptimalBatchSize(ctx, seed, mode); err != nil {
			return stopped(miner, err)
		}
	}

	if !cfg.SkipEstimate {
		if err := printEstimate(ctx, miner, seed, cfg.ZeroBytes, mode, batchSize); err != nil {
			return stopped(miner, err)
		}
	}

	start := time.Now()
	result, err := miner.Mine(ctx, seed, uint8(cfg.ZeroBytes), mode, batchSize)
	if err != nil {
		return stopped(miner, err)
	}
	printResult(cfg, result, time.Since(start))
	return nil
}

// printEstimate times a search for the calibration target and projects it
// onto the requested target.
func printEstimate(ctx context.Context, miner *minerpkg.Miner, seed []byte, zeroBytes int, mode types.Mode, batchSize int) error {
	began := time.Now()
	if _, err := miner.Mine(ctx, seed, calibrationZeroBytes, mode, batchSize); err != nil {
		return err
	}
	secs, err := estimate.ProjectSeconds(time.Since(began), calibrationZeroBytes, zeroBytes, mode)
	if err != nil {
		return err
	}
	attempts, err := estimate.ExpectedAttempts(zeroBytes, mode)
	if err != nil {
		return err
	}
	logger.Infof("Expected attempts: %.0f", attempts)
	color.New(color.FgYellow).Printf("Estimated time to find an address with %d %s zero bytes: %s\n",
		zeroBytes, mode, estimate.FormatSeconds(secs))
	return nil
}

// stopped reports why the search ended early and returns the error to surface.
func stopped(miner *minerpkg.Miner, err error) error {
	stats := miner.Stats()
	switch {
	case errors.Is(err, context.Canceled):
		logger.Warn("Received interrupt signal (Ctrl+C). Stopping miners...")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Timeout reached. Stopping miners...")
	case errors.Is(err, minerpkg.ErrSearchExhausted):
		logger.Warn("Max attempts reached.")
	default:
		return err
	}
	logger.Infof("Attempts: %d", stats.Attempts)
	logger.Infof("Rate: %.2f hashes/sec", stats.HashRate)
	return err
}

func printResult(cfg *config.Config, result *types.Result, elapsed time.Duration) {
	logger.Info("🎉 Found match!")

	green := color.New(color.FgGreen, color.Bold)
	green.Printf("Found address with %d %s zero bytes in %s: %s\n",
		result.Score, types.ModeFromLeading(cfg.Leading), elapsed.Round(time.Millisecond), addressHex(result.Address))
	fmt.Printf("Deployer: %s\n", addressHex(result.Deployer))
	fmt.Printf("Private key: 0x%s\n", result.PrivateKey)
	fmt.Printf("Counter: %s\n", result.Counter.Dec())

	// Calculate rate safely
	rate := 0.0
	if result.Duration.Seconds() > 0 {
		rate = float64(result.Attempts) / result.Duration.Seconds()
	}
	logger.Infof("Attempts: %d", result.Attempts)
	logger.Infof("Rate: %.2f hashes/sec", rate)
}

// addressHex prints lowercase hex; checksum casing is not applied.
func addressHex(addr common.Address) string {
	return hexutil.Encode(addr.Bytes())
}

func setupLogging(cfg *config.Config) (func(), error) {
	closeFn := func() {}
	if cfg.LogFile != "" {
		// Log to file
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger = logpkg.NewWriter(file)
		closeFn = func() { file.Close() }
	} else {
		// Log to stdout
		logger = logpkg.New()
	}
	logger.SetLevelName(cfg.LogLevel, cfg.Verbose)
	return closeFn, nil
}
