// Package redisstore persists the console session in Redis, for operators
// running several console processes against one shared session. The token
// and user live under two fixed keys below a configurable prefix. Every
// write publishes a change event carrying the writer's instance ID, so
// other store instances can converge without polling while ignoring their
// own writes.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/utpfund/admin-console-go/internal/core/domain"
	"github.com/utpfund/admin-console-go/pkg/logger"
)

const (
	tokenKey       = "adminToken"
	userKey        = "adminUser"
	eventsKey      = "session:events"
	defaultTimeout = 5 * time.Second
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a
// ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// Store is a Redis-backed session store.
type Store struct {
	rdb    *redis.Client
	prefix string
	id     string
	log    zerolog.Logger

	mu       sync.Mutex
	watchers map[int]func()
	nextID   int

	cancel  context.CancelFunc
	stopped bool
}

// New wraps an established Redis client as a session store. prefix
// namespaces the session keys; every store instance gets its own identity
// for self-event suppression.
func New(rdb *redis.Client, prefix string, log zerolog.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		rdb:      rdb,
		prefix:   prefix,
		id:       uuid.NewString(),
		log:      log,
		watchers: make(map[int]func()),
		cancel:   cancel,
	}
	go s.listen(ctx)
	return s
}

// NewDefault wraps rdb with the process singleton logger.
func NewDefault(rdb *redis.Client, prefix string) *Store {
	return New(rdb, prefix, logger.Get())
}

func (s *Store) key(suffix string) string {
	return s.prefix + ":" + suffix
}

// Token returns the persisted auth token, or "".
func (s *Store) Token() string {
	val, err := s.rdb.Get(context.Background(), s.key(tokenKey)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("token read failed")
		}
		return ""
	}
	return val
}

// User returns the persisted user record, or nil when absent or
// unparseable. Parse failures are logged, never propagated.
func (s *Store) User() *domain.User {
	raw, err := s.rdb.Get(context.Background(), s.key(userKey)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("user read failed")
		}
		return nil
	}
	if raw == "" || raw == "null" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn().Err(err).Msg("stored user record is unreadable")
		return nil
	}
	return &u
}

// SetSession persists the token/user pair and announces the change.
func (s *Store) SetSession(token string, user *domain.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}
	ctx := context.Background()
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(tokenKey), token, 0)
		pipe.Set(ctx, s.key(userKey), rawUser, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	return s.announce(ctx)
}

// Clear removes both session keys and announces the change.
func (s *Store) Clear() error {
	ctx := context.Background()
	if err := s.rdb.Del(ctx, s.key(tokenKey), s.key(userKey)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return s.announce(ctx)
}

// OnExternalChange registers fn to run when another store instance writes
// the session. The returned cancel removes the registration.
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

// Close stops the change listener. The underlying Redis client is owned by
// the caller and stays open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		s.cancel()
	}
	return nil
}

func (s *Store) announce(ctx context.Context) error {
	if err := s.rdb.Publish(ctx, s.key(eventsKey), s.id).Err(); err != nil {
		return fmt.Errorf("session announce: %w", err)
	}
	return nil
}

func (s *Store) listen(ctx context.Context) {
	sub := s.rdb.Subscribe(ctx, s.key(eventsKey))
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload == s.id {
				continue
			}
			s.mu.Lock()
			fns := make([]func(), 0, len(s.watchers))
			for _, fn := range s.watchers {
				fns = append(fns, fn)
			}
			s.mu.Unlock()
			for _, fn := range fns {
				fn()
			}
		}
	}
}
