package domain

// User models the authenticated visitor as returned by GET /users/me.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	FullName string `json:"full_name,omitempty"`
}

// Subscription is an opaque platform record tied to a student account.
// The session core only fetches and orders these; interpreting the payload is
// consumer business.
type Subscription struct {
	ID     string `json:"id"`
	UserID string `json:"uid"`
	Status string `json:"status"`
	Plan   string `json:"plan,omitempty"`
}

// SubscriptionFilter narrows the subscription listing to one user and status.
type SubscriptionFilter struct {
	UID    string
	Status string
}

// Profile is the visitor's quiz profile record (GET /profiles), consumed by
// presentational surfaces outside the session core.
type Profile struct {
	ID          string `json:"id"`
	UserID      string `json:"uid"`
	Nickname    string `json:"nickname,omitempty"`
	PersonaType string `json:"persona_type,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
