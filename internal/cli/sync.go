package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/skillvault/skillvault/internal/config"
	"github.com/skillvault/skillvault/internal/credentials"
	"github.com/skillvault/skillvault/internal/executor"
	"github.com/skillvault/skillvault/internal/inventory"
	"github.com/skillvault/skillvault/internal/logging"
	"github.com/skillvault/skillvault/internal/plan"
	"github.com/skillvault/skillvault/internal/remote"
	"github.com/skillvault/skillvault/internal/state"
	"github.com/skillvault/skillvault/internal/ui"
	"github.com/skillvault/skillvault/internal/ui/tui"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile local skills with the remote backup",
		Description: `Compare the local skill inventory against the remote backup document
   and apply the differences.

   Strategies:
     merge  install everything missing locally, upload the union
     auto   pull when the remote changed since the last sync, push otherwise
     pull   mirror the remote exactly, removing local extras
     push   overwrite the remote with the local inventory

   Examples:
     skillvault sync
     skillvault sync --strategy pull --dry-run
     skillvault sync -s push -y`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Sync strategy: merge, auto, pull, or push",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Deprecated alias for --strategy (accepts union, latest)",
			},
			&cli.StringFlag{
				Name:  "document",
				Usage: "Remote backup document name (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Preview changes without applying them",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Apply without asking for confirmation",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Review and narrow the plan in a terminal UI",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the run result as JSON",
			},
		},
		Action: runSync,
	}
}

func runSync(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	mode, err := resolveMode(cmd, cfg)
	if err != nil {
		return err
	}

	if cmd.Bool("interactive") && cmd.String("strategy") == "" && cmd.String("mode") == "" {
		picked, ok, err := pickModeInteractive(mode)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Sync cancelled")
			return nil
		}
		mode = picked
	}

	dryRun := cmd.Bool("dry-run")
	jsonOut := cmd.Bool("json")

	document := cfg.Remote.Document
	if d := cmd.String("document"); d != "" {
		document = d
	}

	store := credentials.NewStore("")
	client := remote.NewClient(cfg.Remote.BaseURL, document, store, cfg.Remote.Timeout)

	collector := inventory.NewCLICollector(
		cfg.Inventory.Command,
		cfg.LockFilePath(),
		cfg.AgentConfigPaths(),
		cfg.Sync.DefaultSource,
	)

	stop := logging.Timer("sync")
	defer stop()

	local, err := collector.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect local skills: %w", err)
	}
	logging.Debug("collected local inventory", logging.Count(len(local)))

	remotePayload, remoteExists, err := fetchRemote(ctx, client, cfg)
	if err != nil {
		return err
	}

	st, err := state.Load(state.DefaultPath())
	if err != nil {
		return fmt.Errorf("failed to load sync state: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	builder := plan.NewBuilder(cfg.Sync.DefaultSource)
	p, err := builder.Build(mode, plan.Input{
		Local:      *plan.NewPayload(local, now),
		Remote:     *remotePayload,
		Now:        now,
		LastSyncAt: st.LastSyncAt,
	})
	if err != nil {
		return err
	}

	if !p.HasChanges() {
		if jsonOut {
			return printResultJSON(os.Stdout, &executor.Result{Mode: mode, DryRun: dryRun})
		}
		fmt.Println(ui.StatusSuccess("Already in sync"))
		return nil
	}

	if !jsonOut {
		printPlan(os.Stdout, p)
	}

	if cmd.Bool("interactive") && !dryRun {
		narrowed, ok, err := reviewPlanInteractive(p)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Sync cancelled")
			return nil
		}
		p = narrowed
	} else if !cmd.Bool("yes") && !dryRun && !jsonOut {
		if !confirm(os.Stdin, os.Stdout, "Apply these changes?") {
			fmt.Println("Sync cancelled")
			return nil
		}
	}

	exec := executor.New(
		inventory.NewCLIInstaller(cfg.Inventory.Command),
		&retryingRemote{client: client, cfg: cfg.Retry},
	)
	res := exec.Apply(ctx, p, executor.Options{
		DryRun:       dryRun,
		RemoteExists: remoteExists,
		ShowProgress: !jsonOut,
	})

	if res.Success() && !dryRun {
		st.MarkSynced(time.Now().UTC(), document)
		if err := st.Save(state.DefaultPath()); err != nil {
			logging.Warn("failed to record sync time", logging.Err(err))
		}
	}

	if jsonOut {
		if err := printResultJSON(os.Stdout, res); err != nil {
			return err
		}
	} else {
		printResult(os.Stdout, res)
	}

	if !res.Success() {
		return errors.New("sync completed with failures")
	}
	return nil
}

// resolveMode picks the sync mode from --strategy, the deprecated --mode
// alias, or the configured default, in that order.
func resolveMode(cmd *cli.Command, cfg *config.Config) (plan.Mode, error) {
	if s := cmd.String("strategy"); s != "" {
		return plan.ParseMode(s)
	}
	if m := cmd.String("mode"); m != "" {
		mode, err := plan.ParseLegacyMode(m)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(os.Stderr, ui.StatusWarning(fmt.Sprintf("--mode is deprecated, use --strategy %s", mode)))
		return mode, nil
	}
	return cfg.GetMode(), nil
}

// fetchRemote retrieves the backup document, retrying transient failures.
// A missing document is not an error; it means the first push creates it.
func fetchRemote(ctx context.Context, client *remote.Client, cfg *config.Config) (*plan.Payload, bool, error) {
	var payload *plan.Payload
	err := remote.Do(ctx, cfg.Retry.Attempts, cfg.Retry.BaseDelay, func() error {
		p, err := client.Fetch(ctx)
		if err != nil {
			return err
		}
		payload = p
		return nil
	})
	if errors.Is(err, remote.ErrNotFound) {
		logging.Debug("no remote backup yet", slog.String("document", client.Document()))
		return &plan.Payload{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch remote backup: %w", err)
	}
	return payload, true, nil
}

// pickModeInteractive runs the strategy picker preselecting the current mode.
func pickModeInteractive(current plan.Mode) (plan.Mode, bool, error) {
	final, err := tui.Run(tui.NewModePickerModel(current))
	if err != nil {
		return "", false, fmt.Errorf("strategy selection failed: %w", err)
	}

	model, ok := final.(tui.ModePickerModel)
	if !ok {
		return "", false, errors.New("unexpected model type from strategy picker")
	}

	mode, chosen := model.Selection()
	return mode, chosen, nil
}

// reviewPlanInteractive runs the terminal review list and returns the plan
// narrowed to the entries the user kept.
func reviewPlanInteractive(p plan.Plan) (plan.Plan, bool, error) {
	final, err := tui.Run(tui.NewPlanListModel(p))
	if err != nil {
		return plan.Plan{}, false, fmt.Errorf("plan review failed: %w", err)
	}

	model, ok := final.(tui.PlanListModel)
	if !ok {
		return plan.Plan{}, false, errors.New("unexpected model type from plan review")
	}

	result := model.Result()
	if result.Action != tui.PlanActionApply {
		return plan.Plan{}, false, nil
	}

	p.InstallCandidates = result.Install
	p.RemoveCandidates = result.Remove
	return p, true, nil
}

// retryingRemote wraps the remote client so uploads get the same retry
// treatment as fetches.
type retryingRemote struct {
	client *remote.Client
	cfg    config.RetryConfig
}

func (r *retryingRemote) Create(ctx context.Context, payload *plan.Payload) error {
	return remote.Do(ctx, r.cfg.Attempts, r.cfg.BaseDelay, func() error {
		return r.client.Create(ctx, payload)
	})
}

func (r *retryingRemote) Update(ctx context.Context, payload *plan.Payload) error {
	return remote.Do(ctx, r.cfg.Attempts, r.cfg.BaseDelay, func() error {
		return r.client.Update(ctx, payload)
	})
}
