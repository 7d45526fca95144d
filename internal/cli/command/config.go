package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/atomsnap-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Format: yaml, json, table",
						Value:   string(output.FormatYAML),
					},
				},
				Action: configShow,
			},
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "FILE",
				Action:    configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"), flagOverrides(c))
	if err != nil {
		return err
	}

	f, err := output.NewFormatter(output.Format(c.String("format")))
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, cfg)
}

func configValidate(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: %s config validate FILE", c.App.Name)
	}
	path := c.Args().First()

	if _, err := loadConfig(path, nil); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(c.App.Writer, "%s: ok\n", path)
	return nil
}
