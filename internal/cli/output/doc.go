// Package output renders run results and configuration for the atomsnap CLI.
//
//   - formatter.go: Formatter interface and factory
//   - plain.go: bare output, a single total by default
//   - table.go: FIELD/VALUE tables via text/tabwriter
//   - json.go, yaml.go: machine-readable output
//   - progress.go: live run progress on a terminal
package output
