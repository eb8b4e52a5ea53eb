package redisstore

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/utpfund/admin-console-go/internal/core/domain"
	"github.com/utpfund/admin-console-go/pkg/logger"
)

func newTestStore(t *testing.T, mr *miniredis.Miniredis, prefix string) *Store {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(rdb, prefix, logger.Get())
	t.Cleanup(func() {
		_ = s.Close()
		_ = rdb.Close()
	})
	return s
}

func runMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr
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
	mr := runMiniredis(t)
	s := newTestStore(t, mr, "console")

	if s.Token() != "" || s.User() != nil {
		t.Fatal("fresh store not empty")
	}

	if err := s.SetSession("abc.def.ghi", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if got := s.Token(); got != "abc.def.ghi" {
		t.Fatalf("token %q", got)
	}
	got := s.User()
	if got == nil || got.Email != "superadmin@example.com" {
		t.Fatalf("user %+v", got)
	}
}

func TestClear(t *testing.T) {
	mr := runMiniredis(t)
	s := newTestStore(t, mr, "console")

	if err := s.SetSession("tok", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Token() != "" || s.User() != nil {
		t.Fatal("store not empty after Clear")
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestUser_FailsSoftOnGarbage(t *testing.T) {
	mr := runMiniredis(t)
	s := newTestStore(t, mr, "console")

	mr.Set("console:adminToken", "tok")
	mr.Set("console:adminUser", `{"id":123}`)

	if s.User() != nil {
		t.Fatal("expected nil user for unparseable record")
	}
	if s.Token() != "tok" {
		t.Fatal("token should still be readable")
	}
}

func TestPrefixIsolation(t *testing.T) {
	mr := runMiniredis(t)
	a := newTestStore(t, mr, "alpha")
	b := newTestStore(t, mr, "beta")

	if err := a.SetSession("tok-a", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if b.Token() != "" {
		t.Fatal("prefixes must not share sessions")
	}
}

func TestOnExternalChange_FiresForForeignWrites(t *testing.T) {
	mr := runMiniredis(t)
	s := newTestStore(t, mr, "console")
	other := newTestStore(t, mr, "console")

	fired := make(chan struct{}, 4)
	cancel := s.OnExternalChange(func() { fired <- struct{}{} })
	defer cancel()

	// Subscription setup races the write without this.
	time.Sleep(50 * time.Millisecond)

	if err := other.SetSession("tok", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not observe the foreign write")
	}
	if s.Token() != "tok" {
		t.Fatal("store did not converge on the foreign write")
	}
}

func TestOnExternalChange_IgnoresOwnWrites(t *testing.T) {
	mr := runMiniredis(t)
	s := newTestStore(t, mr, "console")

	fired := make(chan struct{}, 4)
	cancel := s.OnExternalChange(func() { fired <- struct{}{} })
	defer cancel()

	time.Sleep(50 * time.Millisecond)
	if err := s.SetSession("tok", sampleUser()); err != nil {
		t.Fatalf("SetSession: %v", err)
	}

	select {
	case <-fired:
		t.Fatal("listener fired for the store's own write")
	case <-time.After(200 * time.Millisecond):
	}
}
