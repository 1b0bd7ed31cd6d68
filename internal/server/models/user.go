// Package models contains database row types shared by repositories and
// services.
package models

import "time"

// User is a registered account anchored by a phone number. The phone is
// stored twice: an irreversible hash for lookup and an encrypted form for
// display.
type User struct {
	ID             string
	PhoneEncrypted string
	PhoneHash      string
	Name           string
	Telegram       string
	ShowContacts   bool
	OwnerType      string
	OwnerInfo      []byte // raw JSON, opaque to the server
	DepartureTime  string // "HH:MM", empty when unset
	PushToken      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicProfile is the subset of a user visible to other users. Contact
// fields are populated only when the user has ShowContacts enabled.
type PublicProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateUser carries optional profile changes; nil fields are left as is.
type UpdateUser struct {
	Name          *string
	Telegram      *string
	ShowContacts  *bool
	OwnerType     *string
	OwnerInfo     []byte
	DepartureTime *string
	PushToken     *string
}
