package command

import (
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/atomsnap-go/internal/bench/config"
	"github.com/yndnr/atomsnap-go/internal/infra/buildinfo"
	"github.com/yndnr/atomsnap-go/internal/infra/confloader"
	"github.com/yndnr/atomsnap-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "atomsnap",
		Usage:   "Stress a wait-free atomic snapshot object with concurrent writers",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RunCommand(),
			ConfigCommand(),
		},
	}
}

// globalFlags returns the flags available to every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: json, text",
		},
	}
}

// flagKeys maps command-line flags to configuration keys. A flag only
// overrides the file and environment when it is set explicitly.
var flagKeys = map[string]string{
	"writers":       "bench.writers",
	"duration":      "bench.duration",
	"payload-max":   "bench.payload_max",
	"rate":          "bench.update_rate",
	"burst":         "bench.update_burst",
	"label-modulus": "bench.label_modulus",
	"output":        "output.format",
	"metrics-file":  "output.metrics_file",
	"log-level":     "log.level",
	"log-format":    "log.format",
}

// loadConfig merges defaults, the config file at path, ATOMSNAP_
// environment variables and overrides, then validates the result.
func loadConfig(path string, overrides map[string]any) (*config.BenchConfig, error) {
	cfg := config.Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// flagOverrides collects every explicitly set flag known to flagKeys,
// looking through parent commands as well.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if c.IsSet(name) {
			overrides[key] = c.Value(name)
		}
	}
	return overrides
}

// writersArg applies the optional positional writer count.
func writersArg(c *cli.Context, overrides map[string]any) error {
	switch c.Args().Len() {
	case 0:
		return nil
	case 1:
	default:
		return fmt.Errorf("unexpected arguments: %v", c.Args().Tail())
	}

	arg := c.Args().First()
	if c.IsSet("writers") {
		return fmt.Errorf("writer count given both as argument %q and --writers", arg)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid writer count %q: %w", arg, err)
	}
	overrides["bench.writers"] = n
	return nil
}

// initLogger builds the process logger. Logs go to w so that stdout
// carries only the result.
func initLogger(cfg *config.BenchConfig, w io.Writer) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: w,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}
