package config

import (
	"runtime"
	"time"

	"github.com/yndnr/atomsnap-go/pkg/atomicsnap"
)

// Default configuration values.
const (
	DefaultDuration    = 60 * time.Second
	DefaultPayloadMax  = 100
	DefaultUpdateBurst = 1

	DefaultOutputFormat = "plain"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default configuration. Writers defaults to GOMAXPROCS.
func Default() *BenchConfig {
	return &BenchConfig{
		Bench: BenchSection{
			Writers:      runtime.GOMAXPROCS(0),
			Duration:     DefaultDuration,
			PayloadMax:   DefaultPayloadMax,
			UpdateBurst:  DefaultUpdateBurst,
			LabelModulus: atomicsnap.DefaultLabelModulus,
		},
		Output: OutputSection{
			Format: DefaultOutputFormat,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
