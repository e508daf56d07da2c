package credentials

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	s := NewStore(path)

	// Empty store returns empty token, no error.
	token, err := s.Token()
	if err != nil {
		t.Fatalf("Token() on empty store error = %v", err)
	}
	if token != "" {
		t.Errorf("Token() = %q, want empty", token)
	}

	if err := s.Save("sv_abc123"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	token, err = s.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "sv_abc123" {
		t.Errorf("Token() = %q, want sv_abc123", token)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	token, err = s.Token()
	if err != nil || token != "" {
		t.Errorf("Token() after Clear = %q, %v", token, err)
	}

	// Clearing again is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestPromptToken_PipedInput(t *testing.T) {
	var out strings.Builder
	token, err := PromptToken(&out, strings.NewReader("sv_xyz\n"))
	if err != nil {
		t.Fatalf("PromptToken() error = %v", err)
	}
	if token != "sv_xyz" {
		t.Errorf("PromptToken() = %q, want sv_xyz", token)
	}
	if !strings.Contains(out.String(), "Token:") {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestPromptToken_TrimsWhitespace(t *testing.T) {
	var out strings.Builder
	token, err := PromptToken(&out, strings.NewReader("  sv_xyz  \n"))
	if err != nil {
		t.Fatalf("PromptToken() error = %v", err)
	}
	if token != "sv_xyz" {
		t.Errorf("PromptToken() = %q, want trimmed token", token)
	}
}
