package executor

import (
	"fmt"
	"strings"

	"github.com/skillvault/skillvault/internal/model"
	"github.com/skillvault/skillvault/internal/plan"
)

// Action represents the action taken on a skill while applying a plan.
type Action string

const (
	// ActionInstalled indicates a skill was installed locally.
	ActionInstalled Action = "installed"

	// ActionRemoved indicates a skill was removed locally.
	ActionRemoved Action = "removed"

	// ActionSkipped indicates a skill was deliberately not acted on
	// (dry run or user deselection).
	ActionSkipped Action = "skipped"

	// ActionFailed indicates an error occurred processing the skill.
	ActionFailed Action = "failed"
)

// RecordResult represents the outcome of applying one plan entry.
type RecordResult struct {
	// Record is the skill that was processed.
	Record model.Record

	// Action is the action that was taken.
	Action Action

	// Error contains any error that occurred during processing.
	Error error

	// Reason provides additional context, e.g. why an entry failed
	// pre-flight validation.
	Reason string
}

// Result contains the complete outcome of applying a plan.
type Result struct {
	// Mode is the sync mode of the applied plan.
	Mode plan.Mode

	// DryRun indicates no changes were made.
	DryRun bool

	// Records contains the result for each processed plan entry.
	Records []RecordResult

	// Uploaded indicates the remote backup was written.
	Uploaded bool

	// UploadErr is set when the remote write failed.
	UploadErr error
}

// Installed returns records that were installed.
func (r *Result) Installed() []RecordResult {
	return r.filterByAction(ActionInstalled)
}

// Removed returns records that were removed.
func (r *Result) Removed() []RecordResult {
	return r.filterByAction(ActionRemoved)
}

// Skipped returns records that were skipped.
func (r *Result) Skipped() []RecordResult {
	return r.filterByAction(ActionSkipped)
}

// Failed returns records that failed to apply.
func (r *Result) Failed() []RecordResult {
	return r.filterByAction(ActionFailed)
}

// filterByAction returns records with the given action.
func (r *Result) filterByAction(action Action) []RecordResult {
	var filtered []RecordResult
	for _, rr := range r.Records {
		if rr.Action == action {
			filtered = append(filtered, rr)
		}
	}
	return filtered
}

// Success returns true if every entry applied cleanly and the upload, if
// any, succeeded. The last-sync threshold only advances on success.
func (r *Result) Success() bool {
	return len(r.Failed()) == 0 && r.UploadErr == nil
}

// TotalChanged returns the number of records that were installed or removed.
func (r *Result) TotalChanged() int {
	return len(r.Installed()) + len(r.Removed())
}

// Summary returns a human-readable summary of the apply outcome.
func (r *Result) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Applied %s plan\n", r.Mode))
	sb.WriteString(fmt.Sprintf("  Installed: %d\n", len(r.Installed())))
	sb.WriteString(fmt.Sprintf("  Removed:   %d\n", len(r.Removed())))
	sb.WriteString(fmt.Sprintf("  Skipped:   %d\n", len(r.Skipped())))
	sb.WriteString(fmt.Sprintf("  Failed:    %d\n", len(r.Failed())))
	if r.Uploaded {
		sb.WriteString("  Remote backup updated\n")
	}

	if failed := r.Failed(); len(failed) > 0 {
		sb.WriteString("\nFailures:\n")
		for _, f := range failed {
			if f.Error != nil {
				sb.WriteString(fmt.Sprintf("  - %s: %v\n", f.Record, f.Error))
			} else {
				sb.WriteString(fmt.Sprintf("  - %s: %s\n", f.Record, f.Reason))
			}
		}
	}
	if r.UploadErr != nil {
		sb.WriteString(fmt.Sprintf("\nUpload failed: %v\n", r.UploadErr))
	}

	return sb.String()
}
