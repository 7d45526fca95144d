// Package confloader loads layered configuration with koanf.
//
// Sources, highest priority first:
//
//  1. Overrides (command-line flags, as a flat key map)
//  2. Environment variables (ATOMSNAP_SECTION_KEY)
//  3. YAML configuration file
//  4. Defaults already present in the target struct
//
// Watcher reports writes to a configuration file so long runs can pick up
// changes such as a new log level.
package confloader
