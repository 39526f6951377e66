package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"posts", "statuses", "uploads"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_ContentError(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("gone")}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["statuses"] != CheckError {
		t.Errorf("expected statuses %q, got %q", CheckError, r.Checks["statuses"])
	}
	if r.Checks["posts"] != CheckOK {
		t.Errorf("expected posts %q, got %q", CheckOK, r.Checks["posts"])
	}
}

func TestCheck_UploadsError(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, &mockPinger{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["uploads"] != CheckError {
		t.Errorf("expected uploads %q, got %q", CheckError, r.Checks["uploads"])
	}
}

func TestCheck_ContentErrorOutranksUploads(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("a")}, &mockPinger{}, &mockPinger{err: errors.New("b")})
	if r := svc.Check(context.Background()); r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NoUploads(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["uploads"]; ok {
		t.Error("uploads check should be absent when uploads is nil")
	}
}
