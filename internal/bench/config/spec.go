package config

import "time"

// BenchConfig is the root configuration for an atomsnap run.
type BenchConfig struct {
	Bench  BenchSection  `koanf:"bench" json:"bench" yaml:"bench"`
	Output OutputSection `koanf:"output" json:"output" yaml:"output"`
	Log    LogSection    `koanf:"log" json:"log" yaml:"log"`
}

// BenchSection configures the snapshot object and its updaters.
type BenchSection struct {
	// Writers is the number of registers and updater goroutines.
	Writers int `koanf:"writers" json:"writers" yaml:"writers"`

	// Duration is how long updaters run before the stop flag is raised.
	Duration time.Duration `koanf:"duration" json:"duration" yaml:"duration"`

	// PayloadMax bounds the random payloads: each is drawn from [0, PayloadMax).
	PayloadMax int `koanf:"payload_max" json:"payload_max" yaml:"payload_max"`

	// UpdateRate limits each updater to this many updates per second.
	// Zero means unpaced.
	UpdateRate float64 `koanf:"update_rate" json:"update_rate" yaml:"update_rate"`

	// UpdateBurst is the limiter burst when UpdateRate is set.
	UpdateBurst int `koanf:"update_burst" json:"update_burst" yaml:"update_burst"`

	// LabelModulus is the wraparound point of register labels.
	LabelModulus uint64 `koanf:"label_modulus" json:"label_modulus" yaml:"label_modulus"`
}

// OutputSection configures how results are reported.
type OutputSection struct {
	Format      string `koanf:"format" json:"format" yaml:"format"`
	MetricsFile string `koanf:"metrics_file" json:"metrics_file" yaml:"metrics_file"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}
