package inventory

import (
	"context"
	"fmt"

	"github.com/skillvault/skillvault/internal/logging"
	"github.com/skillvault/skillvault/internal/model"
)

// CLIInstaller applies inventory changes through the skills CLI.
type CLIInstaller struct {
	// Command is the skills CLI binary.
	Command string
	// Runner executes the CLI. Defaults to ExecRunner.
	Runner Runner
}

// NewCLIInstaller creates an installer using the given skills CLI command.
func NewCLIInstaller(command string) *CLIInstaller {
	return &CLIInstaller{Command: command, Runner: ExecRunner{}}
}

// Install adds a skill via `<command> add <source>@<name>`.
func (i *CLIInstaller) Install(ctx context.Context, record model.Record) error {
	logging.Debug("installing skill",
		logging.Skill(record.Name),
		logging.Source(record.Source),
		logging.Operation("install"),
	)
	if _, err := i.runner().Run(ctx, i.Command, "add", record.Source+"@"+record.Name); err != nil {
		return fmt.Errorf("failed to install %s: %w", record, err)
	}
	return nil
}

// Remove drops a skill via `<command> remove <name>`.
func (i *CLIInstaller) Remove(ctx context.Context, record model.Record) error {
	logging.Debug("removing skill",
		logging.Skill(record.Name),
		logging.Source(record.Source),
		logging.Operation("remove"),
	)
	if _, err := i.runner().Run(ctx, i.Command, "remove", record.Name); err != nil {
		return fmt.Errorf("failed to remove %s: %w", record, err)
	}
	return nil
}

func (i *CLIInstaller) runner() Runner {
	if i.Runner != nil {
		return i.Runner
	}
	return ExecRunner{}
}
