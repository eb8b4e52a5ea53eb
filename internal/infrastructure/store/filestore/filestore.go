// Package filestore persists the console session in a single JSON document
// on disk. The document holds the two fixed keys the console has always
// used, adminToken and adminUser. Writes go through a temp file and rename
// so concurrent readers never observe a torn document. Writes from other
// processes are detected by a polling watcher and surfaced through
// OnExternalChange.
package filestore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/utpfund/admin-console-go/internal/core/domain"
	"github.com/utpfund/admin-console-go/pkg/logger"
)

const (
	sessionFile  = "session.json"
	dirPerm      = 0o700
	filePerm     = 0o600
	defaultPoll  = 500 * time.Millisecond
	appConfigDir = "console"
)

// document is the on-disk shape. User stays raw so an unparseable record
// degrades to nil instead of poisoning the whole document.
type document struct {
	Token string          `json:"adminToken,omitempty"`
	User  json.RawMessage `json:"adminUser,omitempty"`
}

// Store is a file-backed session store.
type Store struct {
	path string
	poll time.Duration
	log  zerolog.Logger

	mu        sync.Mutex
	lastState string
	watchers  map[int]func()
	nextID    int
	stop      chan struct{}
	stopped   bool
}

// Option customises a Store.
type Option func(*Store)

// WithPollInterval overrides how often external writes are checked for.
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.poll = d
		}
	}
}

// WithLogger attaches a logger; defaults to the process singleton.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// DefaultDir returns the session directory under the user config dir.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appConfigDir), nil
}

// New opens (creating if needed) a file store rooted at dir.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, err
	}
	s := &Store{
		path:     filepath.Join(dir, sessionFile),
		poll:     defaultPoll,
		log:      logger.Get(),
		watchers: make(map[int]func()),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastState = s.fingerprint()
	go s.watch()
	return s, nil
}

// Token returns the persisted auth token, or "".
func (s *Store) Token() string {
	doc, _ := s.read()
	return doc.Token
}

// User returns the persisted user record, or nil when absent or
// unparseable. Parse failures are logged, never propagated.
func (s *Store) User() *domain.User {
	doc, _ := s.read()
	if len(doc.User) == 0 || string(doc.User) == "null" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(doc.User, &u); err != nil {
		s.log.Warn().Err(err).Msg("stored user record is unreadable")
		return nil
	}
	return &u
}

// SetSession persists the token/user pair in one atomic write.
func (s *Store) SetSession(token string, user *domain.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(document{Token: token, User: rawUser}); err != nil {
		return err
	}
	s.lastState = s.fingerprint()
	return nil
}

// Clear removes the persisted session. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.lastState = s.fingerprint()
	return nil
}

// OnExternalChange registers fn to run when another process rewrites the
// session file. The returned cancel removes the registration.
func (s *Store) OnExternalChange(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Close stops the external-change watcher.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.stop)
	}
	return nil
}

func (s *Store) read() (document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("session file is unreadable")
		return document{}, err
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, filePerm); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// fingerprint captures the current file content for change detection.
// Reading content rather than mtime avoids missing same-second rewrites.
func (s *Store) fingerprint() string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *Store) watch() {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		current := s.fingerprint()
		changed := current != s.lastState
		if changed {
			s.lastState = current
		}
		fns := make([]func(), 0, len(s.watchers))
		for _, fn := range s.watchers {
			fns = append(fns, fn)
		}
		s.mu.Unlock()

		if changed {
			for _, fn := range fns {
				fn()
			}
		}
	}
}
