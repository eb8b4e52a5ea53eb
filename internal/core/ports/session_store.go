package ports

import "github.com/utpfund/admin-console-go/internal/core/domain"

// SessionStore is the sole reader/writer of durable session state. It keeps
// exactly two values, the auth token and the serialized user, and survives
// process restarts. The backing storage may be shared with other processes
// of the same operator; OnExternalChange is the only reconciliation channel
// for writes arriving from outside.
type SessionStore interface {
	// Token returns the persisted auth token, or "" when absent.
	Token() string

	// User returns the persisted user record. A missing or unparseable
	// value yields nil; parse failures never surface as errors.
	User() *domain.User

	// SetSession persists the token/user pair. The pair is written
	// together; readers in the same process observe both or neither.
	SetSession(token string, user *domain.User) error

	// Clear removes both values. Clearing an empty store is a no-op.
	Clear() error

	// OnExternalChange registers fn to run whenever the persisted session
	// is modified by a writer other than this store instance. The returned
	// cancel function removes the registration. Delivery is
	// eventually-consistent, not instantaneous.
	OnExternalChange(fn func()) (cancel func())

	// Close releases watcher resources. The store must not be used after.
	Close() error
}
