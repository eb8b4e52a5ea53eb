package domain

// Session is the process-wide authentication state. A zero Session is
// unauthenticated and not loading.
//
// Invariant: Authenticated is true only while both User and Token are
// non-empty and the most recent login or validation accepted them.
type Session struct {
	Authenticated bool   `json:"isAuthenticated"`
	User          *User  `json:"user"`
	Token         string `json:"token"`
	// Loading marks a session transition in flight (initialize, login,
	// logout). Every transition must leave it false on every exit path.
	Loading bool `json:"loading"`
}

// Unauthenticated returns the terminal signed-out session state.
func Unauthenticated() Session {
	return Session{}
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginResult is the payload of a successful login response.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
