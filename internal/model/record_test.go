package model

import "testing"

func TestRecord_Key(t *testing.T) {
	r := Record{Name: "alpha", Source: "org/repo"}
	if got := r.Key(); got != "org/repo:alpha" {
		t.Errorf("Key() = %q, want %q", got, "org/repo:alpha")
	}
}

func TestRecord_Less(t *testing.T) {
	tests := []struct {
		name string
		a, b Record
		want bool
	}{
		{"source orders first", Record{Name: "zzz", Source: "a/repo"}, Record{Name: "aaa", Source: "b/repo"}, true},
		{"name breaks ties", Record{Name: "alpha", Source: "org/repo"}, Record{Name: "beta", Source: "org/repo"}, true},
		{"equal is not less", Record{Name: "alpha", Source: "org/repo"}, Record{Name: "alpha", Source: "org/repo"}, false},
		{"case sensitive", Record{Name: "Alpha", Source: "org/repo"}, Record{Name: "alpha", Source: "org/repo"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsValidSource(t *testing.T) {
	tests := []struct {
		source string
		valid  bool
	}{
		{"owner/repo", true},
		{"vercel-labs/agent-skills", true},
		{"o_w.n-er/r_e.p-o", true},
		{"", false},
		{"owner", false},
		{"owner/", false},
		{"/repo", false},
		{"owner/repo/extra", false},
		{"owner repo/name", false},
		{"owner/repo name", false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := IsValidSource(tt.source); got != tt.valid {
				t.Errorf("IsValidSource(%q) = %v, want %v", tt.source, got, tt.valid)
			}
		})
	}
}
