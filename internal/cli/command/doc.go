// Package command defines the atomsnap command line using urfave/cli/v2.
//
//   - root.go: the App, global flags, config loading and logger setup
//   - run.go: the run command, which drives a benchmark and prints the result
//   - config.go: config show and config validate
package command
