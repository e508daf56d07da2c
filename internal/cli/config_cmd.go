package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/skillvault/skillvault/internal/config"
	"github.com/skillvault/skillvault/internal/ui"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect and manage configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Display the effective configuration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}
					data, err := yaml.Marshal(cfg)
					if err != nil {
						return fmt.Errorf("failed to render configuration: %w", err)
					}
					fmt.Printf("%s\n\n%s", ui.Dim("# "+config.FilePath()), data)
					return nil
				},
			},
			{
				Name:  "init",
				Usage: "Write a default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing configuration file",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if config.Exists() && !cmd.Bool("force") {
						return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", config.FilePath())
					}
					if err := config.Default().Save(); err != nil {
						return err
					}
					fmt.Println(ui.StatusSuccess("Wrote " + config.FilePath()))
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the configuration file path",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Println(config.FilePath())
					return nil
				},
			},
		},
	}
}
