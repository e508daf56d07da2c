// Package executor applies sync plans: installing and removing local skills
// and writing the remote backup. The reconciliation engine only decides;
// this package acts, sequentially, so failure reporting is deterministic.
package executor

import (
	"context"
	"fmt"

	"github.com/skillvault/skillvault/internal/inventory"
	"github.com/skillvault/skillvault/internal/logging"
	"github.com/skillvault/skillvault/internal/model"
	"github.com/skillvault/skillvault/internal/plan"
	"github.com/skillvault/skillvault/internal/progress"
)

// Remote is the subset of the backup client the executor needs.
type Remote interface {
	Create(ctx context.Context, payload *plan.Payload) error
	Update(ctx context.Context, payload *plan.Payload) error
}

// Options configures plan application.
type Options struct {
	// DryRun records every entry as skipped without acting.
	DryRun bool

	// RemoteExists selects Update over Create for the upload payload.
	RemoteExists bool

	// ShowProgress enables a progress bar across install/remove actions.
	ShowProgress bool
}

// Executor applies plans against the local inventory and the remote backup.
type Executor struct {
	installer inventory.Installer
	remote    Remote
}

// New creates an Executor.
func New(installer inventory.Installer, remote Remote) *Executor {
	return &Executor{installer: installer, remote: remote}
}

// Apply executes the plan sequentially. Install candidates are partitioned
// by source validity first; records with malformed sources fail immediately
// with a reason and no external call is attempted for them. Individual
// failures are recorded and do not abort the run.
func (e *Executor) Apply(ctx context.Context, p plan.Plan, opts Options) *Result {
	defer logging.Timer("apply")()

	logging.Debug("applying plan",
		logging.Mode(p.Mode.String()),
		logging.Operation("apply"),
		logging.Count(len(p.InstallCandidates)+len(p.RemoveCandidates)),
	)

	result := &Result{Mode: p.Mode, DryRun: opts.DryRun}

	actionable, invalid := partitionBySource(p.InstallCandidates)
	for _, rec := range invalid {
		result.Records = append(result.Records, RecordResult{
			Record: rec,
			Action: ActionFailed,
			Reason: fmt.Sprintf("invalid source %q: expected owner/repo", rec.Source),
		})
	}

	var bar *progress.Bar
	total := len(actionable) + len(p.RemoveCandidates)
	if opts.ShowProgress && !opts.DryRun && total > 0 {
		bar = progress.Simple(int64(total), "Syncing skills")
	}

	for _, rec := range actionable {
		result.Records = append(result.Records, e.install(ctx, rec, opts))
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	for _, rec := range p.RemoveCandidates {
		result.Records = append(result.Records, e.remove(ctx, rec, opts))
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	if p.Upload != nil && !opts.DryRun {
		if err := e.upload(ctx, p.Upload, opts.RemoteExists); err != nil {
			result.UploadErr = err
		} else {
			result.Uploaded = true
		}
	}

	logging.Debug("plan applied",
		logging.Mode(p.Mode.String()),
		logging.Count(result.TotalChanged()),
	)
	return result
}

func (e *Executor) install(ctx context.Context, rec model.Record, opts Options) RecordResult {
	if opts.DryRun {
		return RecordResult{Record: rec, Action: ActionSkipped, Reason: "dry run"}
	}
	if err := e.installer.Install(ctx, rec); err != nil {
		logging.Error("install failed", logging.Skill(rec.Name), logging.Err(err))
		return RecordResult{Record: rec, Action: ActionFailed, Error: err}
	}
	return RecordResult{Record: rec, Action: ActionInstalled}
}

func (e *Executor) remove(ctx context.Context, rec model.Record, opts Options) RecordResult {
	if opts.DryRun {
		return RecordResult{Record: rec, Action: ActionSkipped, Reason: "dry run"}
	}
	if err := e.installer.Remove(ctx, rec); err != nil {
		logging.Error("remove failed", logging.Skill(rec.Name), logging.Err(err))
		return RecordResult{Record: rec, Action: ActionFailed, Error: err}
	}
	return RecordResult{Record: rec, Action: ActionRemoved}
}

func (e *Executor) upload(ctx context.Context, payload *plan.Payload, remoteExists bool) error {
	if remoteExists {
		if err := e.remote.Update(ctx, payload); err != nil {
			return fmt.Errorf("failed to update remote backup: %w", err)
		}
		return nil
	}
	if err := e.remote.Create(ctx, payload); err != nil {
		return fmt.Errorf("failed to create remote backup: %w", err)
	}
	return nil
}

// partitionBySource splits records into actionable and invalid-source sets,
// preserving order.
func partitionBySource(records []model.Record) (actionable, invalid []model.Record) {
	for _, rec := range records {
		if model.IsValidSource(rec.Source) {
			actionable = append(actionable, rec)
		} else {
			invalid = append(invalid, rec)
		}
	}
	return actionable, invalid
}
