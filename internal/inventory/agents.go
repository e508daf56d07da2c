package inventory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/skillvault/skillvault/internal/plan"
)

// agentConfig is the subset of an agent's config.toml this collector reads.
type agentConfig struct {
	Skills struct {
		// Directory holds one subdirectory per installed skill.
		Directory string `toml:"directory"`
		// Sources maps skill names to owner/repo locators for skills
		// that did not come from the default source.
		Sources map[string]string `toml:"sources"`
	} `toml:"skills"`
}

// scanAgentConfig reads an agent config.toml and derives payload entries
// from its skills directory listing. Skills without a sources override get
// an empty source and pick up the default during normalization.
func scanAgentConfig(path string) ([]plan.Entry, error) {
	var cfg agentConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse agent config %s: %w", path, err)
	}
	if cfg.Skills.Directory == "" {
		return nil, nil
	}

	dir := cfg.Skills.Directory
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(path), dir)
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read skills directory %s: %w", dir, err)
	}

	var entries []plan.Entry
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		entries = append(entries, plan.Entry{
			Name:   d.Name(),
			Source: cfg.Skills.Sources[d.Name()],
		})
	}
	return entries, nil
}
