package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/skillvault/skillvault/internal/executor"
	"github.com/skillvault/skillvault/internal/plan"
	"github.com/skillvault/skillvault/internal/ui"
)

// printPlan writes a human-readable preview of a sync plan.
func printPlan(w io.Writer, p plan.Plan) {
	fmt.Fprintf(w, "%s\n\n", ui.Header(fmt.Sprintf("Sync plan (%s)", p.Mode)))

	for _, rec := range p.InstallCandidates {
		fmt.Fprintf(w, "  %s\n", ui.Install("install "+rec.String()))
	}
	for _, rec := range p.RemoveCandidates {
		fmt.Fprintf(w, "  %s\n", ui.Remove("remove  "+rec.String()))
	}
	if p.Upload != nil {
		fmt.Fprintf(w, "  %s\n", ui.Upload(fmt.Sprintf("upload  remote backup (%d skills)", len(p.Upload.Skills))))
	}
	fmt.Fprintln(w)
}

// printResult writes the apply outcome in text form.
func printResult(w io.Writer, res *executor.Result) {
	fmt.Fprint(w, res.Summary())

	for _, rr := range res.Failed() {
		reason := rr.Reason
		if reason == "" && rr.Error != nil {
			reason = rr.Error.Error()
		}
		fmt.Fprintf(w, "  %s\n", ui.StatusError(fmt.Sprintf("%s: %s", rr.Record, reason)))
	}
	if res.UploadErr != nil {
		fmt.Fprintf(w, "  %s\n", ui.StatusError(fmt.Sprintf("upload failed: %v", res.UploadErr)))
	}
}

// recordReport is the JSON shape of one applied record.
type recordReport struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// syncReport is the JSON shape of a complete sync run.
type syncReport struct {
	Mode     string         `json:"mode"`
	DryRun   bool           `json:"dry_run"`
	Records  []recordReport `json:"records"`
	Uploaded bool           `json:"uploaded"`
	Success  bool           `json:"success"`
}

func buildReport(res *executor.Result) syncReport {
	report := syncReport{
		Mode:     res.Mode.String(),
		DryRun:   res.DryRun,
		Records:  []recordReport{},
		Uploaded: res.Uploaded,
		Success:  res.Success(),
	}
	for _, rr := range res.Records {
		rec := recordReport{
			Name:   rr.Record.Name,
			Source: rr.Record.Source,
			Action: string(rr.Action),
			Reason: rr.Reason,
		}
		if rr.Error != nil {
			rec.Error = rr.Error.Error()
		}
		report.Records = append(report.Records, rec)
	}
	return report
}

// printResultJSON writes the apply outcome as indented JSON.
func printResultJSON(w io.Writer, res *executor.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildReport(res))
}
