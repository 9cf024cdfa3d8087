package domain

import "time"

const (
	ActionLogin         = "login"
	ActionLoginFailed   = "login_failed"
	ActionRegister      = "register"
	ActionAdminMutation = "admin_mutation"
)

// Activity is a single audit trail entry.
type Activity struct {
	ID         string
	Actor      string // email of the principal, may be empty for anonymous attempts
	Role       string
	Action     string
	Target     string
	StatusCode int
	OccurredAt time.Time
}
