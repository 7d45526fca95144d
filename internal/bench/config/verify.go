package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yndnr/atomsnap-go/pkg/atomicsnap"
)

// Formats lists the accepted output.format values.
var Formats = []string{"plain", "table", "json", "yaml"}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "text"}
)

// Verify validates the configuration.
func Verify(cfg *BenchConfig) error {
	if err := VerifyBench(&cfg.Bench); err != nil {
		return err
	}
	if err := verifyOutput(&cfg.Output); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

// VerifyBench validates the bench section on its own.
func VerifyBench(cfg *BenchSection) error {
	if cfg.Writers < 1 || cfg.Writers > atomicsnap.MaxWriters {
		return fmt.Errorf("bench.writers must be between 1 and %d, got %d", atomicsnap.MaxWriters, cfg.Writers)
	}
	if cfg.Duration <= 0 {
		return errors.New("bench.duration must be positive")
	}
	if cfg.PayloadMax < 1 {
		return errors.New("bench.payload_max must be at least 1")
	}
	if cfg.UpdateRate < 0 {
		return errors.New("bench.update_rate must not be negative")
	}
	if cfg.UpdateRate > 0 && cfg.UpdateBurst < 1 {
		return errors.New("bench.update_burst must be at least 1 when update_rate is set")
	}
	if cfg.LabelModulus < 2 {
		return errors.New("bench.label_modulus must be at least 2")
	}
	return nil
}

func verifyOutput(cfg *OutputSection) error {
	if !slices.Contains(Formats, cfg.Format) {
		return fmt.Errorf("output.format %q is not one of %v", cfg.Format, Formats)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if cfg.Level != "" && !slices.Contains(logLevels, cfg.Level) {
		return fmt.Errorf("log.level %q is not one of %v", cfg.Level, logLevels)
	}
	if cfg.Format != "" && !slices.Contains(logFormats, cfg.Format) {
		return fmt.Errorf("log.format %q is not one of %v", cfg.Format, logFormats)
	}
	return nil
}
