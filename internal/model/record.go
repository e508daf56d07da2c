// Package model defines the canonical skill record shared across skillvault.
package model

// Record identifies a single skill by name and the repository it is sourced
// from. Two records describe the same skill iff both fields match exactly;
// comparison is case-sensitive and no trimming or folding is applied.
type Record struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Key returns the identity key used for deduplication and set membership.
func (r Record) Key() string {
	return r.Source + ":" + r.Name
}

// Less reports whether r sorts before other in canonical order:
// ascending by source, then by name.
func (r Record) Less(other Record) bool {
	if r.Source != other.Source {
		return r.Source < other.Source
	}
	return r.Name < other.Name
}

// String returns a display label for the record.
func (r Record) String() string {
	return r.Name + " (" + r.Source + ")"
}
