// Package plan implements the reconciliation engine for skillvault. Given a
// local and a remote snapshot of the skill inventory it produces a pure,
// deterministic plan of installs, removals, and an optional upload payload.
// Nothing in this package performs I/O.
package plan

import "fmt"

// Mode selects the reconciliation behavior for a sync run.
type Mode string

const (
	// ModeMerge unions local and remote, uploading only when the union
	// adds something the remote does not already have.
	ModeMerge Mode = "merge"

	// ModeAuto pulls from remote when it changed since the last sync,
	// otherwise pushes the local set forward.
	ModeAuto Mode = "auto"

	// ModePull makes local mirror remote exactly, including removals.
	ModePull Mode = "pull"

	// ModePush makes remote mirror local exactly; local is never touched.
	ModePush Mode = "push"
)

// IsValid returns true if the mode is recognized.
func (m Mode) IsValid() bool {
	switch m {
	case ModeMerge, ModeAuto, ModePull, ModePush:
		return true
	default:
		return false
	}
}

// AllModes returns all supported sync modes.
func AllModes() []Mode {
	return []Mode{ModeMerge, ModeAuto, ModePull, ModePush}
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m Mode) Description() string {
	switch m {
	case ModeMerge:
		return "Combine local and remote skills, keeping both sides' additions"
	case ModeAuto:
		return "Pull when remote changed since the last sync, otherwise push local"
	case ModePull:
		return "Make local match remote exactly, removing local extras"
	case ModePush:
		return "Make remote match local exactly, never touching local skills"
	default:
		return "Unknown mode"
	}
}

// ParseLegacyMode maps the legacy combined strategy names onto modes. The
// empty string defaults to "union". Any other unrecognized value is a
// validation failure naming the offending value and the allowed set; no
// default is silently substituted for an explicitly wrong value.
func ParseLegacyMode(name string) (Mode, error) {
	switch name {
	case "", "union":
		return ModeMerge, nil
	case "latest":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("invalid sync strategy %q: must be one of \"union\", \"latest\"", name)
	}
}

// ParseMode parses a mode name, rejecting unknown values with an error that
// lists the allowed set.
func ParseMode(name string) (Mode, error) {
	m := Mode(name)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid sync mode %q: must be one of %v", name, AllModes())
	}
	return m, nil
}
