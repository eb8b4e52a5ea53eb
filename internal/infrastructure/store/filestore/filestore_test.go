package filestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/utpfund/admin-console-go/internal/core/domain"
)

func newStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := New(dir, WithPollInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:        "sa_1",
		FirstName: "Super",
		LastName:  "Admin",
		Email:     "superadmin@example.com",
		Role:      domain.RoleSuperAdmin,
	}
}

func TestRoundTrip(t *testing.T) {
	s := newStore(t, t.TempDir())

	if s.Token() != "" || s.User() != nil {
		t.Fatal("fresh store not empty")
	}

	user := sampleUser()
	if err := s.SetSession("abc.def.ghi", user); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if got := s.Token(); got != "abc.def.ghi" {
		t.Fatalf("token %q", got)
	}
	got := s.User()
	if got == nil || got.Email != user.Email || got.ID != user.ID {
		t.Fatalf("user %+v", got)
	}
}

func TestClear(t *testing.T) {
	s := newStore(t, t.TempDir())
	if err := s.SetSession("tok", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Token() != "" || s.User() != nil {
		t.Fatal("store not empty after Clear")
	}

	// Clearing an empty store is a no-op.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestUser_FailsSoftOnGarbage(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, dir)

	// A user record of the wrong shape must degrade to nil, not error.
	raw := []byte(`{"adminToken":"tok","adminUser":{"id":123}}`)
	if err := os.WriteFile(filepath.Join(dir, "session.json"), raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if s.User() != nil {
		t.Fatal("expected nil user for unparseable record")
	}
	if s.Token() != "tok" {
		t.Fatal("token should still be readable")
	}

	// A fully corrupt document degrades to an empty session.
	if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if s.Token() != "" || s.User() != nil {
		t.Fatal("corrupt document must read as empty")
	}
}

func TestOnExternalChange_FiresForForeignWrites(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, dir)
	other := newStore(t, dir)

	fired := make(chan struct{}, 4)
	cancel := s.OnExternalChange(func() { fired <- struct{}{} })
	defer cancel()

	if err := other.SetSession("tok", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not observe the foreign write")
	}
	if s.Token() != "tok" {
		t.Fatal("store did not converge on the foreign write")
	}
}

func TestOnExternalChange_IgnoresOwnWrites(t *testing.T) {
	s := newStore(t, t.TempDir())

	fired := make(chan struct{}, 4)
	cancel := s.OnExternalChange(func() { fired <- struct{}{} })
	defer cancel()

	if err := s.SetSession("tok", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	select {
	case <-fired:
		t.Fatal("watcher fired for the store's own write")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOnExternalChange_CancelStopsDelivery(t *testing.T) {
	dir := t.TempDir()
	s := newStore(t, dir)
	other := newStore(t, dir)

	fired := make(chan struct{}, 4)
	cancel := s.OnExternalChange(func() { fired <- struct{}{} })
	cancel()

	if err := other.SetSession("tok", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	select {
	case <-fired:
		t.Fatal("cancelled watcher still fired")
	case <-time.After(200 * time.Millisecond):
	}
}
