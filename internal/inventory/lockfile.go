package inventory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/skillvault/skillvault/internal/plan"
)

// lockDocument is the skills-lock.json shape. Current lock files map skill
// names to metadata objects; older files carried a bare name array.
type lockDocument struct {
	Skills json.RawMessage `json:"skills"`
}

type lockEntry struct {
	Source  string `json:"source"`
	Version string `json:"version,omitempty"`
}

// readLockFile hydrates payload entries from the skills lock file. A
// missing file is not an error; a present but unparsable one is, since the
// lock file is the inventory of record when the CLI is silent.
func readLockFile(path string) ([]plan.Entry, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lock file %s: %w", path, err)
	}

	var doc lockDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse lock file %s: %w", path, err)
	}
	if len(doc.Skills) == 0 {
		return nil, nil
	}

	// Current form: {"skills": {"name": {"source": "owner/repo"}, ...}}
	var byName map[string]lockEntry
	if err := json.Unmarshal(doc.Skills, &byName); err == nil {
		entries := make([]plan.Entry, 0, len(byName))
		for name, e := range byName {
			entries = append(entries, plan.Entry{Name: name, Source: e.Source})
		}
		return entries, nil
	}

	// Legacy form: {"skills": ["name", ...]} or record objects.
	var entries []plan.Entry
	if err := json.Unmarshal(doc.Skills, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse lock file %s: unrecognized skills shape", path)
	}
	return entries, nil
}
