package domain

import "time"

// Session describes an identity-provider session presented as a bearer token.
type Session struct {
	SubjectID string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
