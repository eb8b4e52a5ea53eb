package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/utpfund/admin-console-go/internal/client"
	"github.com/utpfund/admin-console-go/internal/core/domain"
	"github.com/utpfund/admin-console-go/internal/core/ports"
	"github.com/utpfund/admin-console-go/internal/metrics"
	"github.com/utpfund/admin-console-go/pkg/logger"
)

// AuthManager owns the session state machine end to end: bootstrap, login,
// logout, token refresh, and convergence with session writes made by other
// processes sharing the store.
//
// At most one session-mutating operation (Login, Logout, RefreshToken) runs
// at a time; a second concurrent call fails fast with domain.ErrSessionBusy
// instead of racing the first.
//
// Every operation leaves Session.Loading false on every exit path.
type AuthManager struct {
	api             *client.Client
	store           ports.SessionStore
	log             zerolog.Logger
	validateOnStart bool

	// op serializes session transitions. Weighted with capacity 1 so a
	// contended acquire can fail without blocking.
	op *semaphore.Weighted

	mu      sync.RWMutex
	session domain.Session

	subMu   sync.Mutex
	subs    map[int]chan domain.Session
	nextSub int

	initOnce    sync.Once
	cancelWatch func()
}

// AuthOption customises an AuthManager.
type AuthOption func(*AuthManager)

// WithValidateOnStart makes Initialize confirm a restored session with an
// authoritative profile fetch instead of trusting the persisted pair.
func WithValidateOnStart(on bool) AuthOption {
	return func(m *AuthManager) { m.validateOnStart = on }
}

// WithAuthLogger attaches a logger; defaults to the process singleton.
func WithAuthLogger(log zerolog.Logger) AuthOption {
	return func(m *AuthManager) { m.log = log }
}

// NewAuthManager wires the manager to its collaborators. The session starts
// in the loading state until Initialize resolves it.
func NewAuthManager(api *client.Client, store ports.SessionStore, opts ...AuthOption) *AuthManager {
	m := &AuthManager{
		api:     api,
		store:   store,
		log:     logger.Get(),
		op:      semaphore.NewWeighted(1),
		session: domain.Session{Loading: true},
		subs:    make(map[int]chan domain.Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns a snapshot of the current session state.
func (m *AuthManager) Session() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Subscribe returns a channel receiving every session state change and a
// cancel function releasing it. Slow consumers drop intermediate states
// rather than blocking the manager.
func (m *AuthManager) Subscribe() (<-chan domain.Session, func()) {
	ch := make(chan domain.Session, 8)
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.subMu.Unlock()
	return ch, func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

// Initialize resolves the boot-time session exactly once and returns the
// provisional result. A persisted token/user pair is restored optimistically
// so startup is not gated on a round trip; when validate-on-start is set,
// an authoritative Validate runs in the background and may demote the
// session afterwards. Initialize never fails: every path terminates in
// either the authenticated or the unauthenticated state.
func (m *AuthManager) Initialize(ctx context.Context) domain.Session {
	m.initOnce.Do(func() {
		m.cancelWatch = m.store.OnExternalChange(m.handleExternalChange)

		token := m.store.Token()
		user := m.store.User()

		switch {
		case token == "" || user == nil:
			m.api.ClearToken()
			m.setSession(domain.Unauthenticated(), "initialize", "ok")
		case tokenExpired(token):
			// A locally expired JWT cannot be valid remotely; reject it
			// without a round trip.
			m.log.Info().Msg("persisted token expired, discarding session")
			m.clearLocal()
			m.setSession(domain.Unauthenticated(), "initialize", "ok")
		default:
			m.api.SetToken(token)
			m.setSession(domain.Session{
				Authenticated: true,
				User:          user,
				Token:         token,
			}, "initialize", "ok")
			if m.validateOnStart {
				go func() {
					if _, err := m.Validate(context.WithoutCancel(ctx)); err != nil {
						m.log.Warn().Err(err).Msg("background session validation failed")
					}
				}()
			}
		}
	})
	return m.Session()
}

// Validate is the authoritative second phase of a session restore. With the
// optimistic policy a persisted token/user pair passes without a round
// trip; with validate-on-start, or when the user record is missing, the
// profile endpoint decides. A rejected or unusable session is cleared and
// the state demoted. The demotion is silent: an expired token is not a user
// action failure.
func (m *AuthManager) Validate(ctx context.Context) (bool, error) {
	token := m.store.Token()
	if token == "" {
		m.clearLocal()
		m.setSession(domain.Unauthenticated(), "validate", "ok")
		return false, nil
	}

	user := m.store.User()
	if user != nil && !m.validateOnStart {
		// Both values present: locally satisfied.
		m.api.SetToken(token)
		return true, nil
	}

	m.api.SetToken(token)
	profile, err := m.fetchProfile(ctx)
	if err != nil {
		m.log.Info().Err(err).Msg("session validation rejected, signing out")
		m.clearLocal()
		m.setSession(domain.Unauthenticated(), "validate", "error")
		return false, nil
	}

	if err := m.store.SetSession(token, profile); err != nil {
		m.log.Warn().Err(err).Msg("session persist failed after validation")
	}
	m.setSession(domain.Session{
		Authenticated: true,
		User:          profile,
		Token:         token,
	}, "validate", "ok")
	return true, nil
}

// Login authenticates the operator. On success the pair is persisted, the
// client carries the token, and the session flips to authenticated. On
// failure the session stays unauthenticated and the normalized error is
// returned for the caller to render.
func (m *AuthManager) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	if err := validateInput(creds); err != nil {
		return nil, err
	}
	if !m.op.TryAcquire(1) {
		return nil, domain.ErrSessionBusy
	}
	defer m.op.Release(1)

	m.setLoading(true)

	var result domain.LoginResult
	if _, err := m.api.Post(ctx, epLogin, creds, &result); err != nil {
		m.setLoading(false)
		metrics.SessionTransitionsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}
	if result.Token == "" || result.User == nil {
		m.setLoading(false)
		metrics.SessionTransitionsTotal.WithLabelValues("login", "error").Inc()
		return nil, &domain.APIError{Message: "Login failed", Status: 0}
	}

	if err := m.store.SetSession(result.Token, result.User); err != nil {
		m.log.Error().Err(err).Msg("session persist failed after login")
	}
	m.api.SetToken(result.Token)
	m.setSession(domain.Session{
		Authenticated: true,
		User:          result.User,
		Token:         result.Token,
	}, "login", "ok")

	m.log.Info().Str("email", result.User.Email).Msg("logged in")
	return &result, nil
}

// Logout ends the session. The remote logout call is best effort: its
// failure is logged and the local session is cleared regardless, so logging
// out always succeeds. Calling Logout on an already signed-out session is a
// no-op that lands in the same terminal state.
func (m *AuthManager) Logout(ctx context.Context) error {
	if !m.op.TryAcquire(1) {
		return domain.ErrSessionBusy
	}
	defer m.op.Release(1)

	m.setLoading(true)
	m.logout(ctx)
	return nil
}

// logout runs the logout sequence. Callers hold the transition guard.
func (m *AuthManager) logout(ctx context.Context) {
	defer func() {
		m.clearLocal()
		m.setSession(domain.Unauthenticated(), "logout", "ok")
	}()

	if m.store.Token() == "" {
		return
	}
	if _, err := m.api.Post(ctx, epLogout, nil, nil); err != nil {
		m.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
}

// RefreshToken exchanges the current token for a fresh one, updating the
// store, the client, and the session's token field. Refresh failure is
// fatal to the session: the manager logs out and returns the error.
func (m *AuthManager) RefreshToken(ctx context.Context) (string, error) {
	if !m.op.TryAcquire(1) {
		return "", domain.ErrSessionBusy
	}
	defer m.op.Release(1)

	var result struct {
		Token string `json:"token"`
	}
	_, err := m.api.Post(ctx, epRefresh, nil, &result)
	if err == nil && result.Token == "" {
		err = &domain.APIError{Message: "Token refresh failed", Status: 0}
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("token refresh failed, signing out")
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "error").Inc()
		m.setLoading(true)
		m.logout(ctx)
		return "", err
	}

	m.mu.Lock()
	user := m.session.User
	m.session.Token = result.Token
	snapshot := m.session
	m.mu.Unlock()

	if err := m.store.SetSession(result.Token, user); err != nil {
		m.log.Error().Err(err).Msg("session persist failed after refresh")
	}
	m.api.SetToken(result.Token)
	m.publish(snapshot)
	metrics.SessionTransitionsTotal.WithLabelValues("refresh", "ok").Inc()
	return result.Token, nil
}

// Profile fetches the operator's profile and refreshes the cached user.
func (m *AuthManager) Profile(ctx context.Context) (*domain.User, error) {
	user, err := m.fetchProfile(ctx)
	if err != nil {
		return nil, err
	}
	if token := m.store.Token(); token != "" {
		if err := m.store.SetSession(token, user); err != nil {
			m.log.Warn().Err(err).Msg("session persist failed after profile fetch")
		}
	}
	m.UpdateUser(user)
	return user, nil
}

// UpdateUser overwrites the in-memory user record only. It is meant for
// callers whose profile edit already round-tripped through the API.
func (m *AuthManager) UpdateUser(user *domain.User) {
	m.mu.Lock()
	m.session.User = user
	snapshot := m.session
	m.mu.Unlock()
	m.publish(snapshot)
}

// Close detaches the manager from the store's change notifications.
func (m *AuthManager) Close() {
	if m.cancelWatch != nil {
		m.cancelWatch()
	}
}

func (m *AuthManager) fetchProfile(ctx context.Context) (*domain.User, error) {
	var out struct {
		User *domain.User `json:"user"`
	}
	if _, err := m.api.Get(ctx, epProfile, &out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &domain.APIError{Message: "Failed to fetch profile", Status: 0}
	}
	return out.User, nil
}

// handleExternalChange re-reads the store after another process rewrote the
// session and converges on the new state, so concurrent consoles agree
// without talking to each other.
func (m *AuthManager) handleExternalChange() {
	token := m.store.Token()
	user := m.store.User()

	if token != "" && user != nil {
		m.api.SetToken(token)
		m.setSession(domain.Session{
			Authenticated: true,
			User:          user,
			Token:         token,
		}, "external", "ok")
		return
	}
	m.api.ClearToken()
	m.setSession(domain.Unauthenticated(), "external", "ok")
}

// clearLocal wipes the persisted session and the client token. Session
// state is the caller's to settle.
func (m *AuthManager) clearLocal() {
	if err := m.store.Clear(); err != nil {
		m.log.Error().Err(err).Msg("session store clear failed")
	}
	m.api.ClearToken()
}

func (m *AuthManager) setLoading(on bool) {
	m.mu.Lock()
	m.session.Loading = on
	snapshot := m.session
	m.mu.Unlock()
	m.publish(snapshot)
}

func (m *AuthManager) setSession(s domain.Session, op, result string) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()

	if s.Authenticated {
		metrics.SessionAuthenticated.Set(1)
	} else {
		metrics.SessionAuthenticated.Set(0)
	}
	metrics.SessionTransitionsTotal.WithLabelValues(op, result).Inc()
	m.publish(s)
}

func (m *AuthManager) publish(s domain.Session) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

// tokenExpired reports whether token is a well-formed JWT whose expiry has
// elapsed. Opaque or claim-less tokens are not treated as expired; the
// server stays the authority on those.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
