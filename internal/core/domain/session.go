package domain

// SessionState is the lifecycle state of the visitor session.
type SessionState string

const (
	StateInitializing    SessionState = "initializing"
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticated   SessionState = "authenticated"
)

// validSessionTransitions defines the allowed state machine transitions.
// Initializing resolves exactly once; afterwards the session only moves
// between the two terminal states.
var validSessionTransitions = map[SessionState][]SessionState{
	StateInitializing:    {StateUnauthenticated, StateAuthenticated},
	StateUnauthenticated: {StateAuthenticated, StateUnauthenticated},
	StateAuthenticated:   {StateUnauthenticated, StateAuthenticated},
}

// CanTransitionTo reports whether a transition from the current state to next
// is valid.
func (s SessionState) CanTransitionTo(next SessionState) bool {
	for _, allowed := range validSessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Session is the in-memory snapshot of the visitor's authentication and role
// state. It is rebuilt wholesale on every transition and never mutated in
// place; consumers receive value copies.
type Session struct {
	State         SessionState   `json:"state"`
	Authenticated bool           `json:"authenticated"`
	User          *User          `json:"user,omitempty"`
	Subscriptions []Subscription `json:"subscriptions"`
}

// NewSession returns the snapshot every controller starts from.
func NewSession() Session {
	return Session{State: StateInitializing, Subscriptions: []Subscription{}}
}

// Unauthenticated builds the signed-out snapshot.
func Unauthenticated() Session {
	return Session{State: StateUnauthenticated, Subscriptions: []Subscription{}}
}

// Authenticated builds the signed-in snapshot for user with its (possibly
// empty) subscriptions. A nil slice is normalized so the snapshot always
// serializes subscriptions as a sequence.
func Authenticated(user User, subs []Subscription) Session {
	if subs == nil {
		subs = []Subscription{}
	}
	return Session{
		State:         StateAuthenticated,
		Authenticated: true,
		User:          &user,
		Subscriptions: subs,
	}
}

// Role returns the visitor's role, or RoleUnknown when signed out.
func (s Session) Role() Role {
	if s.User == nil {
		return RoleUnknown
	}
	return s.User.Role
}
