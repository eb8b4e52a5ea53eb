package service

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/utpfund/admin-console-go/internal/client"
	"github.com/utpfund/admin-console-go/internal/core/domain"
	"github.com/utpfund/admin-console-go/internal/fakeapi"
	"github.com/utpfund/admin-console-go/internal/infrastructure/store/filestore"
)

type authFixture struct {
	fake  *fakeapi.Server
	api   *client.Client
	store *filestore.Store
	dir   string
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	fake := fakeapi.New()
	ts := httptest.NewServer(fake.Handler())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	store, err := filestore.New(dir, filestore.WithPollInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("filestore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return &authFixture{
		fake:  fake,
		api:   client.New(ts.URL, client.WithTimeout(5*time.Second)),
		store: store,
		dir:   dir,
	}
}

func (f *authFixture) manager(t *testing.T, opts ...AuthOption) *AuthManager {
	t.Helper()
	m := NewAuthManager(f.api, f.store, opts...)
	t.Cleanup(m.Close)
	return m
}

func validCreds() domain.Credentials {
	return domain.Credentials{
		Email:    fakeapi.SuperAdminEmail,
		Password: fakeapi.SuperAdminPassword,
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

func TestInitialize_NoPersistedSession(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)

	session := m.Initialize(context.Background())
	if session.Authenticated {
		t.Fatal("expected unauthenticated session")
	}
	if session.Loading {
		t.Fatal("initialize left loading=true")
	}
}

func TestInitialize_RestoresPersistedSession(t *testing.T) {
	f := newAuthFixture(t)
	operator := f.fake.Operator()
	token := f.fake.IssueToken()
	if err := f.store.SetSession(token, &operator); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := f.manager(t)
	session := m.Initialize(context.Background())

	if !session.Authenticated || session.Loading {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Token != token {
		t.Fatalf("session token mismatch")
	}
	if session.User == nil || session.User.Email != operator.Email {
		t.Fatalf("unexpected user: %+v", session.User)
	}
	if f.api.Token() != token {
		t.Fatal("client does not carry the restored token")
	}
}

func TestInitialize_DiscardsExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	operator := f.fake.Operator()
	if err := f.store.SetSession(f.fake.IssueExpiredToken(), &operator); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := f.manager(t)
	session := m.Initialize(context.Background())

	if session.Authenticated || session.Loading {
		t.Fatalf("unexpected session: %+v", session)
	}
	if f.store.Token() != "" {
		t.Fatal("expired session not cleared from store")
	}
	if f.api.Token() != "" {
		t.Fatal("expired token left on client")
	}
}

func TestInitialize_IsNotReentrant(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)

	first := m.Initialize(context.Background())
	if _, err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("login: %v", err)
	}
	again := m.Initialize(context.Background())
	if first.Authenticated || !again.Authenticated {
		t.Fatal("second Initialize must not rerun the bootstrap")
	}
}

func TestInitialize_ValidateOnStartDemotesRejectedSession(t *testing.T) {
	f := newAuthFixture(t)
	operator := f.fake.Operator()
	if err := f.store.SetSession(f.fake.IssueToken(), &operator); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	f.fake.SetRejectAuth(true)

	m := f.manager(t, WithValidateOnStart(true))
	session := m.Initialize(context.Background())
	if !session.Authenticated {
		t.Fatal("expected optimistic provisional session")
	}

	waitFor(t, 2*time.Second, func() bool {
		return !m.Session().Authenticated
	}, "background validation should demote the session")
	if f.store.Token() != "" {
		t.Fatal("rejected session not cleared from store")
	}
}

func TestValidate_FetchesProfileWhenUserMissing(t *testing.T) {
	f := newAuthFixture(t)
	token := f.fake.IssueToken()
	if err := f.store.SetSession(token, nil); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	m := f.manager(t)
	m.Initialize(context.Background())

	valid, err := m.Validate(context.Background())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !valid {
		t.Fatal("expected valid session")
	}

	session := m.Session()
	if !session.Authenticated || session.User == nil {
		t.Fatalf("unexpected session: %+v", session)
	}
	if got := f.store.User(); got == nil || got.Email != fakeapi.SuperAdminEmail {
		t.Fatalf("profile not persisted: %+v", got)
	}
}

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())

	result, err := m.Login(context.Background(), validCreds())
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" || result.User == nil {
		t.Fatalf("incomplete login result: %+v", result)
	}

	session := m.Session()
	if !session.Authenticated || session.Loading {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.Token != result.Token {
		t.Fatal("session token differs from login result")
	}

	// Round-trip: persisted value equals in-memory value.
	if f.store.Token() != session.Token {
		t.Fatal("persisted token differs from session token")
	}
	stored := f.store.User()
	if stored == nil || stored.Email != session.User.Email {
		t.Fatalf("persisted user differs: %+v", stored)
	}
	if f.api.Token() != session.Token {
		t.Fatal("client does not carry the session token")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())

	_, err := m.Login(context.Background(), domain.Credentials{
		Email:    fakeapi.SuperAdminEmail,
		Password: "wrongpassword",
	})
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *domain.APIError, got %v", err)
	}
	if !apiErr.Unauthorized() || apiErr.Message == "" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}

	session := m.Session()
	if session.Authenticated || session.Loading {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestLogin_ValidatesBeforeNetwork(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())

	_, err := m.Login(context.Background(), domain.Credentials{Email: "not-an-email", Password: "short"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if f.fake.LoginCalls() != 0 {
		t.Fatal("invalid credentials must not reach the network")
	}
}

func TestLogout_ClearsEvenWhenRemoteFails(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())
	if _, err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("login: %v", err)
	}

	f.fake.SetFailLogout(true)
	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("logout must succeed locally, got %v", err)
	}

	session := m.Session()
	if session.Authenticated || session.Loading {
		t.Fatalf("unexpected session: %+v", session)
	}
	if f.store.Token() != "" || f.store.User() != nil {
		t.Fatal("store not cleared")
	}
	if f.api.Token() != "" {
		t.Fatal("client token not cleared")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())
	if _, err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	calls := f.fake.LogoutCalls()
	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if f.fake.LogoutCalls() != calls {
		t.Fatal("second logout must not hit the network")
	}
	if session := m.Session(); session.Authenticated || session.Loading {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestRefreshToken_Success(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())
	result, err := m.Login(context.Background(), validCreds())
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	time.Sleep(1100 * time.Millisecond) // fresh exp claim, so a distinct token
	token, err := m.RefreshToken(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if token == result.Token {
		t.Fatal("expected a new token")
	}

	session := m.Session()
	if !session.Authenticated || session.Token != token {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.User == nil || session.User.Email != fakeapi.SuperAdminEmail {
		t.Fatal("refresh must keep the user")
	}
	if f.store.Token() != token {
		t.Fatal("new token not persisted")
	}
	if f.api.Token() != token {
		t.Fatal("new token not applied to client")
	}
}

func TestRefreshToken_FailureLogsOut(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())
	if _, err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("login: %v", err)
	}

	f.fake.SetRejectAuth(true)
	_, err := m.RefreshToken(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}

	session := m.Session()
	if session.Authenticated || session.Loading {
		t.Fatalf("unexpected session: %+v", session)
	}
	if f.store.Token() != "" || f.store.User() != nil {
		t.Fatal("store not cleared after fatal refresh failure")
	}
}

func TestSessionBusy_RejectsOverlappingTransitions(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())

	f.fake.SetLatency(300 * time.Millisecond)
	done := make(chan error, 1)
	go func() {
		_, err := m.Login(context.Background(), validCreds())
		done <- err
	}()

	waitFor(t, 2*time.Second, func() bool {
		return m.Session().Loading
	}, "login should be in flight")

	if err := m.Logout(context.Background()); !errors.Is(err, domain.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}
	if _, err := m.RefreshToken(context.Background()); !errors.Is(err, domain.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestExternalChange_ConvergesToForeignLogin(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())
	if m.Session().Authenticated {
		t.Fatal("precondition failed")
	}

	// A second process sharing the same session directory logs in.
	other, err := filestore.New(f.dir, filestore.WithPollInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("second store: %v", err)
	}
	defer other.Close()

	operator := f.fake.Operator()
	token := f.fake.IssueToken()
	if err := other.SetSession(token, &operator); err != nil {
		t.Fatalf("foreign login: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		s := m.Session()
		return s.Authenticated && s.Token == token
	}, "manager should converge to the foreign session")
	if f.api.Token() != token {
		t.Fatal("client token not updated on external change")
	}
}

func TestExternalChange_ConvergesToForeignLogout(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())
	if _, err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("login: %v", err)
	}

	other, err := filestore.New(f.dir, filestore.WithPollInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("second store: %v", err)
	}
	defer other.Close()
	if err := other.Clear(); err != nil {
		t.Fatalf("foreign logout: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return !m.Session().Authenticated
	}, "manager should converge to the foreign logout")
	if f.api.Token() != "" {
		t.Fatal("client token not cleared on external logout")
	}
}

func TestSubscribe_ObservesTransitions(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())

	ch, cancel := m.Subscribe()
	defer cancel()

	if _, err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("login: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s.Authenticated && !s.Loading {
				return
			}
		case <-deadline:
			t.Fatal("no authenticated state observed on subscription")
		}
	}
}

func TestUpdateUser_LocalOnly(t *testing.T) {
	f := newAuthFixture(t)
	m := f.manager(t)
	m.Initialize(context.Background())
	if _, err := m.Login(context.Background(), validCreds()); err != nil {
		t.Fatalf("login: %v", err)
	}
	before := f.store.User()

	edited := *m.Session().User
	edited.FirstName = "Renamed"
	m.UpdateUser(&edited)

	if m.Session().User.FirstName != "Renamed" {
		t.Fatal("in-memory user not updated")
	}
	after := f.store.User()
	if before == nil || after == nil || after.FirstName != before.FirstName {
		t.Fatal("UpdateUser must not touch the store")
	}
}

func TestTokenExpired(t *testing.T) {
	f := newAuthFixture(t)
	if tokenExpired(f.fake.IssueToken()) {
		t.Fatal("fresh token reported expired")
	}
	if !tokenExpired(f.fake.IssueExpiredToken()) {
		t.Fatal("expired token not detected")
	}
	if tokenExpired("opaque-session-token") {
		t.Fatal("opaque token must not be treated as expired")
	}
}
