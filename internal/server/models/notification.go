package models

import "time"

// Notification is a durable in-app message. The only mutation is the
// unread -> read transition; records are never deleted by normal flow.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Data      []byte // structured JSON payload, may be nil
	Read      bool
	CreatedAt time.Time
}
