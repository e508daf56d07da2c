package plan

import (
	"reflect"
	"testing"

	"github.com/skillvault/skillvault/internal/model"
)

func payload(updatedAt string, entries ...Entry) Payload {
	return Payload{Skills: entries, UpdatedAt: updatedAt}
}

func TestBuilder_Merge(t *testing.T) {
	b := NewBuilder(testDefaultSource)

	t.Run("identical sides produce no changes", func(t *testing.T) {
		in := Input{
			Local:  payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Remote: payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Now:    "2026-01-02T00:00:00Z",
		}
		p := b.Merge(in)
		if len(p.InstallCandidates) != 0 {
			t.Errorf("InstallCandidates = %v, want empty", p.InstallCandidates)
		}
		if p.Upload != nil {
			t.Errorf("Upload = %v, want nil", p.Upload)
		}
	})

	t.Run("remote extras become installs without upload", func(t *testing.T) {
		in := Input{
			Local:  payload("", Entry{Name: "alpha", Source: "org/repo"}),
			Remote: payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}, Entry{Name: "beta", Source: "org/repo"}),
			Now:    "2026-01-02T00:00:00Z",
		}
		p := b.Merge(in)
		want := []model.Record{{Name: "beta", Source: "org/repo"}}
		if !reflect.DeepEqual(p.InstallCandidates, want) {
			t.Errorf("InstallCandidates = %v, want %v", p.InstallCandidates, want)
		}
		// Remote already equals the union, so no write is needed.
		if p.Upload != nil {
			t.Errorf("Upload = %v, want nil", p.Upload)
		}
	})

	t.Run("local extras trigger upload of the union", func(t *testing.T) {
		in := Input{
			Local:  payload("", Entry{Name: "alpha", Source: "org/repo"}, Entry{Name: "gamma", Source: "org/repo"}),
			Remote: payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Now:    "2026-01-02T00:00:00Z",
		}
		p := b.Merge(in)
		if p.Upload == nil {
			t.Fatal("Upload = nil, want union payload")
		}
		if p.Upload.UpdatedAt != "2026-01-02T00:00:00Z" {
			t.Errorf("Upload.UpdatedAt = %q, want now", p.Upload.UpdatedAt)
		}
		if len(p.Upload.Skills) != 2 {
			t.Errorf("Upload.Skills = %v, want 2 entries", p.Upload.Skills)
		}
	})

	t.Run("legacy remote strings merge with default source", func(t *testing.T) {
		in := Input{
			Local:  payload(""),
			Remote: payload("2026-01-01T00:00:00Z", Entry{Name: "alpha"}),
			Now:    "2026-01-02T00:00:00Z",
		}
		p := b.Merge(in)
		want := []model.Record{{Name: "alpha", Source: testDefaultSource}}
		if !reflect.DeepEqual(p.InstallCandidates, want) {
			t.Errorf("InstallCandidates = %v, want %v", p.InstallCandidates, want)
		}
	})
}

func TestBuilder_Auto(t *testing.T) {
	b := NewBuilder(testDefaultSource)

	t.Run("remote newer pulls without upload", func(t *testing.T) {
		in := Input{
			Local:      payload("", Entry{Name: "alpha", Source: "org/repo"}),
			Remote:     payload("2026-01-03T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}, Entry{Name: "beta", Source: "org/repo"}),
			Now:        "2026-01-04T00:00:00Z",
			LastSyncAt: "2026-01-02",
		}
		p := b.Auto(in)
		if !p.RemoteNewer {
			t.Error("RemoteNewer = false, want true")
		}
		want := []model.Record{{Name: "beta", Source: "org/repo"}}
		if !reflect.DeepEqual(p.InstallCandidates, want) {
			t.Errorf("InstallCandidates = %v, want %v", p.InstallCandidates, want)
		}
		if p.Upload != nil {
			t.Errorf("Upload = %v, want nil", p.Upload)
		}
	})

	t.Run("equal timestamps are not newer", func(t *testing.T) {
		in := Input{
			Local:      payload("", Entry{Name: "alpha", Source: "org/repo"}),
			Remote:     payload("2026-01-02T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Now:        "2026-01-04T00:00:00Z",
			LastSyncAt: "2026-01-02T00:00:00Z",
		}
		p := b.Auto(in)
		if p.RemoteNewer {
			t.Error("RemoteNewer = true for equal timestamps, want false")
		}
	})

	t.Run("stale remote pushes local when sets differ", func(t *testing.T) {
		in := Input{
			Local:      payload("", Entry{Name: "alpha", Source: "org/repo"}, Entry{Name: "gamma", Source: "org/repo"}),
			Remote:     payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Now:        "2026-01-04T00:00:00Z",
			LastSyncAt: "2026-01-02T00:00:00Z",
		}
		p := b.Auto(in)
		if p.RemoteNewer {
			t.Error("RemoteNewer = true, want false")
		}
		if len(p.InstallCandidates) != 0 {
			t.Errorf("InstallCandidates = %v, want empty", p.InstallCandidates)
		}
		if p.Upload == nil {
			t.Fatal("Upload = nil, want local payload")
		}
		if len(p.Upload.Skills) != 2 {
			t.Errorf("Upload.Skills = %v, want local set", p.Upload.Skills)
		}
	})

	t.Run("stale remote with equal sets uploads nothing", func(t *testing.T) {
		in := Input{
			Local:      payload("", Entry{Name: "alpha", Source: "org/repo"}),
			Remote:     payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Now:        "2026-01-04T00:00:00Z",
			LastSyncAt: "2026-01-02T00:00:00Z",
		}
		if p := b.Auto(in); p.Upload != nil {
			t.Errorf("Upload = %v, want nil", p.Upload)
		}
	})

	t.Run("unparsable remote timestamp falls to push branch", func(t *testing.T) {
		in := Input{
			Local:      payload("", Entry{Name: "gamma", Source: "org/repo"}),
			Remote:     payload("garbage", Entry{Name: "alpha", Source: "org/repo"}),
			Now:        "2026-01-04T00:00:00Z",
			LastSyncAt: "", // even with no last sync, unparsable remote is never newer
		}
		p := b.Auto(in)
		if p.RemoteNewer {
			t.Error("RemoteNewer = true for unparsable remote timestamp")
		}
		if p.Upload == nil {
			t.Error("Upload = nil, want local payload")
		}
	})

	t.Run("absent lastSyncAt falls back to epoch", func(t *testing.T) {
		in := Input{
			Local:      payload(""),
			Remote:     payload("2026-01-03T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Now:        "2026-01-04T00:00:00Z",
			LastSyncAt: "",
		}
		if p := b.Auto(in); !p.RemoteNewer {
			t.Error("RemoteNewer = false with absent lastSyncAt, want true")
		}
	})
}

func TestBuilder_Pull(t *testing.T) {
	b := NewBuilder(testDefaultSource)

	in := Input{
		Local:  payload("", Entry{Name: "alpha", Source: "org/repo"}, Entry{Name: "gamma", Source: "org/repo"}),
		Remote: payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}, Entry{Name: "beta", Source: "org/repo"}),
		Now:    "2026-01-05T00:00:00Z",
	}
	p := b.Pull(in)

	wantInstall := []model.Record{{Name: "beta", Source: "org/repo"}}
	if !reflect.DeepEqual(p.InstallCandidates, wantInstall) {
		t.Errorf("InstallCandidates = %v, want %v", p.InstallCandidates, wantInstall)
	}
	wantRemove := []model.Record{{Name: "gamma", Source: "org/repo"}}
	if !reflect.DeepEqual(p.RemoveCandidates, wantRemove) {
		t.Errorf("RemoveCandidates = %v, want %v", p.RemoveCandidates, wantRemove)
	}
	if p.Upload != nil {
		t.Errorf("Upload = %v, pull never writes remote", p.Upload)
	}
}

func TestBuilder_Pull_Complementarity(t *testing.T) {
	b := NewBuilder(testDefaultSource)

	local := []Entry{{Name: "alpha", Source: "a/r"}, {Name: "beta", Source: "b/r"}}
	remote := []Entry{{Name: "beta", Source: "b/r"}, {Name: "delta", Source: "d/r"}}
	p := b.Pull(Input{Local: payload("", local...), Remote: payload("2026-01-01", remote...)})

	norm := NewNormalizer(testDefaultSource)
	remoteSet := norm.Normalize(remote)
	localSet := norm.Normalize(local)

	// Install candidates plus the remote records already local recover the
	// remote set exactly.
	alreadyLocal := Difference(remoteSet, p.InstallCandidates)
	if !SetsEqual(Union(alreadyLocal, p.InstallCandidates), remoteSet) {
		t.Error("install candidates and retained remote records do not recover the remote set")
	}
	if len(Difference(p.InstallCandidates, remoteSet)) != 0 {
		t.Error("install candidates contain records outside the remote set")
	}

	// Symmetric property for removals against local.
	kept := Difference(localSet, p.RemoveCandidates)
	if !SetsEqual(Union(kept, p.RemoveCandidates), localSet) {
		t.Error("remove candidates and kept local records do not recover the local set")
	}
}

func TestBuilder_Push(t *testing.T) {
	b := NewBuilder(testDefaultSource)

	t.Run("differing sets upload local", func(t *testing.T) {
		in := Input{
			Local:  payload("", Entry{Name: "alpha", Source: "org/repo"}),
			Remote: payload("2026-01-01T00:00:00Z", Entry{Name: "beta", Source: "org/repo"}),
			Now:    "2026-01-05T00:00:00Z",
		}
		p := b.Push(in)
		if p.Upload == nil {
			t.Fatal("Upload = nil, want local payload")
		}
		want := []Entry{{Name: "alpha", Source: "org/repo"}}
		if !reflect.DeepEqual(p.Upload.Skills, want) {
			t.Errorf("Upload.Skills = %v, want %v", p.Upload.Skills, want)
		}
		if p.Upload.UpdatedAt != "2026-01-05T00:00:00Z" {
			t.Errorf("Upload.UpdatedAt = %q, want now", p.Upload.UpdatedAt)
		}
		if len(p.InstallCandidates) != 0 || len(p.RemoveCandidates) != 0 {
			t.Error("push must never touch the local inventory")
		}
	})

	t.Run("equal sets suppress upload", func(t *testing.T) {
		in := Input{
			Local:  payload("", Entry{Name: "alpha", Source: "org/repo"}),
			Remote: payload("2026-01-01T00:00:00Z", Entry{Name: "alpha", Source: "org/repo"}),
			Now:    "2026-01-05T00:00:00Z",
		}
		if p := b.Push(in); p.Upload != nil {
			t.Errorf("Upload = %v, want nil", p.Upload)
		}
	})
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(testDefaultSource)

	for _, mode := range AllModes() {
		t.Run(mode.String(), func(t *testing.T) {
			p, err := b.Build(mode, Input{Now: "2026-01-01T00:00:00Z"})
			if err != nil {
				t.Fatalf("Build(%s) error = %v", mode, err)
			}
			if p.Mode != mode {
				t.Errorf("Plan.Mode = %s, want %s", p.Mode, mode)
			}
		})
	}

	if _, err := b.Build(Mode("bogus"), Input{}); err == nil {
		t.Error("Build with unknown mode should fail")
	}
}

func TestPlan_HasChanges(t *testing.T) {
	if (Plan{}).HasChanges() {
		t.Error("empty plan reports changes")
	}
	if !(Plan{Upload: &Payload{}}).HasChanges() {
		t.Error("plan with upload reports no changes")
	}
	if !(Plan{InstallCandidates: []model.Record{{Name: "a", Source: "o/r"}}}).HasChanges() {
		t.Error("plan with installs reports no changes")
	}
}
