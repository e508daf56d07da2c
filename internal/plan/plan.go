package plan

import (
	"github.com/skillvault/skillvault/internal/model"
)

// Input carries the two sides of a sync plus the timestamp context. Now is
// caller-supplied so every build is a pure function of its arguments.
type Input struct {
	// Local is the payload describing the local skill inventory.
	Local Payload

	// Remote is the payload fetched from the backup document. A zero
	// payload with empty UpdatedAt means no remote backup exists yet.
	Remote Payload

	// Now is the ISO-8601 timestamp stamped onto any upload payload.
	Now string

	// LastSyncAt is the last successful sync time, used only by auto
	// mode. Absent or unparsable values fall back to the epoch origin.
	LastSyncAt string
}

// Plan describes the intended mutations for one sync run. The engine never
// applies a plan; execution belongs to the caller.
type Plan struct {
	// Mode is the reconciliation mode that produced this plan.
	Mode Mode

	// InstallCandidates are skills to install locally. They are not yet
	// validated; callers partition them with model.IsValidSource before
	// acting.
	InstallCandidates []model.Record

	// RemoveCandidates are skills to remove locally. Pull mode only.
	RemoveCandidates []model.Record

	// Upload is the payload to write to the remote backup, or nil when no
	// remote write is needed.
	Upload *Payload

	// RemoteNewer reports whether auto mode judged the remote side fresher
	// than the last sync. Always false outside auto mode.
	RemoteNewer bool
}

// HasChanges reports whether the plan mutates anything on either side.
func (p Plan) HasChanges() bool {
	return len(p.InstallCandidates) > 0 || len(p.RemoveCandidates) > 0 || p.Upload != nil
}

// Builder constructs plans. It holds only the normalizer; every Build call
// is a pure, stateless transformation of its input.
type Builder struct {
	norm Normalizer
}

// NewBuilder creates a Builder whose normalizer substitutes defaultSource
// for entries without one.
func NewBuilder(defaultSource string) Builder {
	return Builder{norm: NewNormalizer(defaultSource)}
}

// Build dispatches to the mode-specific builder. Unknown modes return the
// validation error from ParseMode.
func (b Builder) Build(mode Mode, in Input) (Plan, error) {
	switch mode {
	case ModeMerge:
		return b.Merge(in), nil
	case ModeAuto:
		return b.Auto(in), nil
	case ModePull:
		return b.Pull(in), nil
	case ModePush:
		return b.Push(in), nil
	default:
		_, err := ParseMode(string(mode))
		return Plan{}, err
	}
}

// Merge unions both sides. Installs whatever the union adds over local, and
// uploads the union unless the remote already equals it.
func (b Builder) Merge(in Input) Plan {
	local := b.norm.NormalizePayload(in.Local)
	remote := b.norm.NormalizePayload(in.Remote)

	union := Union(local, remote)
	p := Plan{
		Mode:              ModeMerge,
		InstallCandidates: Difference(union, local),
	}
	if !SetsEqual(remote, union) {
		p.Upload = NewPayload(union, in.Now)
	}
	return p
}

// Auto gates on remote freshness. A remote updated strictly after the last
// sync is authoritative and is pulled without uploading; otherwise local is
// considered current and is pushed unless both sides already match. An
// unparsable remote timestamp always falls to the push branch.
func (b Builder) Auto(in Input) Plan {
	local := b.norm.NormalizePayload(in.Local)
	remote := b.norm.NormalizePayload(in.Remote)

	// Unparsable or absent last-sync values fall back to the epoch origin.
	lastSync, _ := ParseTimestamp(in.LastSyncAt)
	remoteTime, remoteOK := ParseTimestamp(in.Remote.UpdatedAt)

	p := Plan{Mode: ModeAuto}
	if remoteOK && remoteTime.After(lastSync) {
		p.RemoteNewer = true
		p.InstallCandidates = Difference(remote, local)
		return p
	}

	if !SetsEqual(local, remote) {
		p.Upload = NewPayload(local, in.Now)
	}
	return p
}

// Pull mirrors remote into local: install what remote has and local lacks,
// remove what local has and remote lacks. Pull never writes remote state.
func (b Builder) Pull(in Input) Plan {
	local := b.norm.NormalizePayload(in.Local)
	remote := b.norm.NormalizePayload(in.Remote)

	return Plan{
		Mode:              ModePull,
		InstallCandidates: Difference(remote, local),
		RemoveCandidates:  Difference(local, remote),
	}
}

// Push mirrors local into remote. The local inventory is never touched; the
// upload is suppressed when both sides already match.
func (b Builder) Push(in Input) Plan {
	local := b.norm.NormalizePayload(in.Local)
	remote := b.norm.NormalizePayload(in.Remote)

	p := Plan{Mode: ModePush}
	if !SetsEqual(local, remote) {
		p.Upload = NewPayload(local, in.Now)
	}
	return p
}
