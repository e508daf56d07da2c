package inventory

import (
	"context"
	"encoding/json"

	"github.com/skillvault/skillvault/internal/logging"
	"github.com/skillvault/skillvault/internal/model"
	"github.com/skillvault/skillvault/internal/plan"
)

// Collector lists the locally installed skills as canonical records.
type Collector interface {
	List(ctx context.Context) ([]model.Record, error)
}

// Installer applies install and remove actions to the local inventory.
type Installer interface {
	Install(ctx context.Context, record model.Record) error
	Remove(ctx context.Context, record model.Record) error
}

// CLICollector gathers the inventory from the skills CLI, with lock-file
// hydration and agent config.toml discovery as fallbacks when the CLI
// reports nothing. All sources are normalized through the same rules the
// sync engine uses, so diagnostic leaks in CLI output are filtered here.
type CLICollector struct {
	// Command is the skills CLI binary.
	Command string
	// LockFile is the path of the skills lock file, may be empty.
	LockFile string
	// AgentConfigs are agent config.toml paths to scan, may be empty.
	AgentConfigs []string
	// Runner executes the CLI. Defaults to ExecRunner.
	Runner Runner

	norm plan.Normalizer
}

// NewCLICollector creates a collector using the given skills CLI command
// and default source for entries without one.
func NewCLICollector(command, lockFile string, agentConfigs []string, defaultSource string) *CLICollector {
	return &CLICollector{
		Command:      command,
		LockFile:     lockFile,
		AgentConfigs: agentConfigs,
		Runner:       ExecRunner{},
		norm:         plan.NewNormalizer(defaultSource),
	}
}

// List returns the local skill inventory. CLI output that is empty or not
// valid JSON (the CLI prints a plain-text notice when nothing is installed)
// falls through to lock-file hydration and agent config discovery.
func (c *CLICollector) List(ctx context.Context) ([]model.Record, error) {
	records := c.listFromCLI(ctx)

	if len(records) == 0 {
		hydrated, err := c.hydrate()
		if err != nil {
			return nil, err
		}
		records = hydrated
	}

	logging.Debug("collected local inventory",
		logging.Operation("collect"),
		logging.Count(len(records)),
	)
	return records, nil
}

// listFromCLI invokes `<command> list --json` and parses its output.
// Failures are logged and treated as an empty result; the collector is
// best-effort by design.
func (c *CLICollector) listFromCLI(ctx context.Context) []model.Record {
	out, err := c.runner().Run(ctx, c.Command, "list", "--json")
	if err != nil {
		logging.Debug("skills CLI unavailable, falling back to lock file",
			logging.Operation("collect"),
			logging.Err(err),
		)
		return nil
	}
	return c.parseListOutput(out)
}

// parseListOutput accepts both the document form {"skills": [...]} and a
// bare top-level array.
func (c *CLICollector) parseListOutput(out []byte) []model.Record {
	var doc struct {
		Skills []plan.Entry `json:"skills"`
	}
	if err := json.Unmarshal(out, &doc); err == nil && doc.Skills != nil {
		return c.norm.Normalize(doc.Skills)
	}

	var entries []plan.Entry
	if err := json.Unmarshal(out, &entries); err == nil {
		return c.norm.Normalize(entries)
	}

	logging.Debug("unparsable skills CLI output", logging.Operation("collect"))
	return nil
}

// hydrate builds the inventory from the lock file and agent configs.
func (c *CLICollector) hydrate() ([]model.Record, error) {
	var entries []plan.Entry

	if c.LockFile != "" {
		locked, err := readLockFile(c.LockFile)
		if err != nil {
			return nil, err
		}
		entries = append(entries, locked...)
	}

	for _, path := range c.AgentConfigs {
		found, err := scanAgentConfig(path)
		if err != nil {
			logging.Warn("skipping unreadable agent config",
				logging.Path(path),
				logging.Err(err),
			)
			continue
		}
		entries = append(entries, found...)
	}

	return c.norm.Normalize(entries), nil
}

func (c *CLICollector) runner() Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return ExecRunner{}
}
