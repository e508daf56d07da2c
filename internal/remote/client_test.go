package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skillvault/skillvault/internal/plan"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/backups/default" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(plan.Payload{
			Skills:    []plan.Entry{{Name: "alpha", Source: "org/repo"}},
			UpdatedAt: "2026-01-01T00:00:00Z",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "default", staticToken("tok123"), 5*time.Second)
	payload, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(payload.Skills) != 1 || payload.Skills[0].Name != "alpha" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestClient_Fetch_LegacyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"skills":["alpha","beta"],"updatedAt":"2026-01-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "default", nil, 5*time.Second)
	payload, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(payload.Skills) != 2 || payload.Skills[0].Source != "" {
		t.Errorf("legacy payload decoded as %+v", payload.Skills)
	}
}

func TestClient_Fetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "default", nil, 5*time.Second)
	if _, err := c.Fetch(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch() error = %v, want ErrNotFound", err)
	}
}

func TestClient_CreateAndUpdate(t *testing.T) {
	var gotMethod atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod.Store(r.Method)
		var p plan.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("body decode: %v", err)
		}
		if p.UpdatedAt != "2026-01-05T00:00:00Z" {
			t.Errorf("UpdatedAt = %q", p.UpdatedAt)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "default", nil, 5*time.Second)
	payload := plan.NewPayload(nil, "2026-01-05T00:00:00Z")

	if err := c.Create(context.Background(), payload); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if gotMethod.Load() != http.MethodPost {
		t.Errorf("Create used %v, want POST", gotMethod.Load())
	}

	if err := c.Update(context.Background(), payload); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if gotMethod.Load() != http.MethodPut {
		t.Errorf("Update used %v, want PUT", gotMethod.Load())
	}
}

func TestClient_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "default", nil, 5*time.Second)
	_, err := c.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRetryable(err) {
		t.Error("auth failures must not be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", ErrNotFound, false},
		{"server error", &statusError{code: 503}, true},
		{"client error", &statusError{code: 400}, false},
		{"transport error", errors.New("connection refused"), true},
		{"canceled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"skills":[],"updatedAt":""}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "default", nil, 5*time.Second)
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		_, err := c.Fetch(context.Background())
		return err
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestDo_DoesNotRetryNotFound(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Do() error = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := &statusError{code: 502}
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Do() error = %v, want final attempt error", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_ContextCancelAbortsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, 3, time.Hour, func() error {
		return &statusError{code: 500}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}
