package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/skillvault/skillvault/internal/config"
	"github.com/skillvault/skillvault/internal/credentials"
	"github.com/skillvault/skillvault/internal/remote"
	"github.com/skillvault/skillvault/internal/ui"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Store an access token for the backup service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "token",
				Usage: "Access token (prompted for when omitted)",
			},
			&cli.BoolFlag{
				Name:  "no-verify",
				Usage: "Skip verifying the token against the backup service",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			token := cmd.String("token")
			if token == "" {
				var err error
				token, err = credentials.PromptToken(os.Stdout, os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
			}
			if token == "" {
				return errors.New("no token provided")
			}

			store := credentials.NewStore("")
			if err := store.Save(token); err != nil {
				return err
			}

			if !cmd.Bool("no-verify") {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Document, store, cfg.Remote.Timeout)
				if _, err := client.Fetch(ctx); err != nil && !errors.Is(err, remote.ErrNotFound) {
					fmt.Println(ui.StatusWarning(fmt.Sprintf("token saved, but verification failed: %v", err)))
					return nil
				}
			}

			fmt.Println(ui.StatusSuccess("Logged in"))
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Remove the stored access token",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store := credentials.NewStore("")
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println(ui.StatusSuccess("Logged out"))
			return nil
		},
	}
}
