package models

import "time"

// UserPlate is one vehicle owned by a user. At most one plate per user is
// primary; each plate may carry its own departure-time override.
type UserPlate struct {
	ID            string
	UserID        string
	Plate         string // always stored normalized
	IsPrimary     bool
	DepartureTime string // "HH:MM", empty when unset
	CreatedAt     time.Time
}
