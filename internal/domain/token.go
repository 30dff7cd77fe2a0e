package domain

import "time"

// Token is the persisted bearer credential, bound 1:1 to an identity.
// It is issued lazily on first login and every later login returns the
// same value.
type Token struct {
	Value      string
	IdentityID string
	IssuedAt   time.Time
}
