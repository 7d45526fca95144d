// Package config defines the benchmark configuration.
//
//   - spec.go: BenchConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// ATOMSNAP_ environment variables and command-line flags.
package config
