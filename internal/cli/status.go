package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/skillvault/skillvault/internal/config"
	"github.com/skillvault/skillvault/internal/credentials"
	"github.com/skillvault/skillvault/internal/inventory"
	"github.com/skillvault/skillvault/internal/plan"
	"github.com/skillvault/skillvault/internal/remote"
	"github.com/skillvault/skillvault/internal/state"
	"github.com/skillvault/skillvault/internal/ui"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show local and remote skill inventory status",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			collector := inventory.NewCLICollector(
				cfg.Inventory.Command,
				cfg.LockFilePath(),
				cfg.AgentConfigPaths(),
				cfg.Sync.DefaultSource,
			)
			local, err := collector.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to collect local skills: %w", err)
			}

			store := credentials.NewStore("")
			client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Document, store, cfg.Remote.Timeout)

			st, err := state.Load(state.DefaultPath())
			if err != nil {
				return fmt.Errorf("failed to load sync state: %w", err)
			}

			fmt.Println(ui.Header("Skillvault status"))
			fmt.Printf("  Document:     %s\n", cfg.Remote.Document)
			fmt.Printf("  Local skills: %d\n", len(local))
			fmt.Printf("  Last sync:    %s\n", formatLastSync(st.LastSyncAt))

			remotePayload, remoteExists, err := fetchRemote(ctx, client, cfg)
			if err != nil {
				if token, terr := store.Token(); terr == nil && token == "" {
					fmt.Printf("  Remote:       %s\n", ui.StatusWarning("not logged in (run `skillvault login`)"))
					return nil
				}
				fmt.Printf("  Remote:       %s\n", ui.StatusError(fmt.Sprintf("unreachable (%v)", err)))
				return nil
			}
			if !remoteExists {
				fmt.Printf("  Remote:       %s\n", ui.StatusWarning("no backup document yet"))
				return nil
			}

			norm := plan.NewNormalizer(cfg.Sync.DefaultSource)
			remoteRecords := norm.NormalizePayload(*remotePayload)
			fmt.Printf("  Remote skills: %d (updated %s)\n", len(remoteRecords), formatLastSync(remotePayload.UpdatedAt))

			localPayload := plan.NewPayload(local, "")
			localRecords := norm.NormalizePayload(*localPayload)
			if plan.SetsEqual(localRecords, remoteRecords) {
				fmt.Printf("  %s\n", ui.StatusSuccess("In sync"))
				return nil
			}

			missing := plan.Difference(remoteRecords, localRecords)
			extra := plan.Difference(localRecords, remoteRecords)
			if len(missing) > 0 {
				fmt.Printf("  %s\n", ui.StatusWarning(fmt.Sprintf("%d remote skill(s) missing locally", len(missing))))
			}
			if len(extra) > 0 {
				fmt.Printf("  %s\n", ui.StatusWarning(fmt.Sprintf("%d local skill(s) not backed up", len(extra))))
			}
			return nil
		},
	}
}

func formatLastSync(value string) string {
	if value == "" {
		return "never"
	}
	if t, ok := plan.ParseTimestamp(value); ok {
		return t.Local().Format(time.RFC1123)
	}
	return value
}
