package plan

import (
	"strings"

	"github.com/skillvault/skillvault/internal/model"
)

// diagnosticLeaks are substrings from the skills CLI's "nothing installed"
// output that have been observed leaking into skill lists upstream. Entries
// whose name contains any of them are artifacts, not skills.
var diagnosticLeaks = []string{
	"No skills installed",
	"No skills found",
	"Run skills add",
}

// Normalizer converts heterogeneous payload entries into canonical records.
// Malformed entries are silently dropped; normalization never fails.
type Normalizer struct {
	// DefaultSource is substituted for entries that carry no source,
	// including all legacy bare-name entries.
	DefaultSource string
}

// NewNormalizer creates a Normalizer with the given fallback source locator.
func NewNormalizer(defaultSource string) Normalizer {
	return Normalizer{DefaultSource: defaultSource}
}

// Normalize converts entries into a canonical record set: the default source
// is substituted where absent, invalid entries are dropped, and the result
// is deduplicated and sorted.
func (n Normalizer) Normalize(entries []Entry) []model.Record {
	records := make([]model.Record, 0, len(entries))
	for _, e := range entries {
		if !hasName(e.Name) || isDiagnosticLeak(e.Name) {
			continue
		}
		source := e.Source
		if source == "" {
			source = n.DefaultSource
		}
		records = append(records, model.Record{Name: e.Name, Source: source})
	}
	return DedupeSort(records)
}

// NormalizePayload normalizes the skills field of a payload.
func (n Normalizer) NormalizePayload(p Payload) []model.Record {
	return n.Normalize(p.Skills)
}

// hasName reports whether the entry has a usable name after coercion.
func hasName(name string) bool {
	return name != ""
}

// isDiagnosticLeak reports whether the name is a leaked CLI diagnostic
// message rather than a skill.
func isDiagnosticLeak(name string) bool {
	for _, leak := range diagnosticLeaks {
		if strings.Contains(name, leak) {
			return true
		}
	}
	return false
}
