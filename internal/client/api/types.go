package api

import (
	"encoding/json"
	"time"
)

// Response shapes of the HTTP API. Field names are a compatibility contract
// with the server, see internal/server/httpapi.

type StartAuthResult struct {
	Code      string `json:"code,omitempty"`
	ExpiresIn int    `json:"expires_in"`
}

type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	IsNew  bool   `json:"is_new,omitempty"`
}

type Profile struct {
	ID            string          `json:"id"`
	Phone         string          `json:"phone"`
	Name          string          `json:"name,omitempty"`
	Telegram      string          `json:"telegram,omitempty"`
	ShowContacts  bool            `json:"show_contacts"`
	OwnerType     string          `json:"owner_type,omitempty"`
	OwnerInfo     json.RawMessage `json:"owner_info,omitempty"`
	DepartureTime string          `json:"departure_time,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type UpdateProfile struct {
	Name          *string         `json:"name,omitempty"`
	Telegram      *string         `json:"telegram,omitempty"`
	ShowContacts  *bool           `json:"show_contacts,omitempty"`
	OwnerType     *string         `json:"owner_type,omitempty"`
	OwnerInfo     json.RawMessage `json:"owner_info,omitempty"`
	DepartureTime *string         `json:"departure_time,omitempty"`
}

type PublicProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type Block struct {
	ID           string    `json:"id"`
	BlockerID    string    `json:"blocker_id"`
	BlockerPlate string    `json:"blocker_plate"`
	BlockedPlate string    `json:"blocked_plate"`
	CreatedAt    time.Time `json:"created_at"`
}

// BlockAgainstMe is a block on one of the caller's plates, enriched with
// whatever the blocker chose to share.
type BlockAgainstMe struct {
	Block
	Blocker              PublicProfile   `json:"blocker"`
	BlockerOwnerType     string          `json:"blocker_owner_type,omitempty"`
	BlockerOwnerInfo     json.RawMessage `json:"blocker_owner_info,omitempty"`
	BlockerDepartureTime string          `json:"blocker_departure_time,omitempty"`
}

type CheckResult struct {
	IsBlocked bool   `json:"is_blocked"`
	Block     *Block `json:"block,omitempty"`
}

type Plate struct {
	ID            string    `json:"id"`
	Plate         string    `json:"plate"`
	IsPrimary     bool      `json:"is_primary"`
	DepartureTime string    `json:"departure_time,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type Notification struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

type ServerInfo struct {
	ServerVersion        string `json:"server_version"`
	MinClientVersion     string `json:"min_client_version"`
	ReleaseClientVersion string `json:"release_client_version"`
	AppDownloadURL       string `json:"app_download_url,omitempty"`
	TelegramBotUsername  string `json:"telegram_bot_username,omitempty"`
}
