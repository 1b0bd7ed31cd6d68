package httpapi

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/carblock/internal/server/models"
	"github.com/dmitrijs2005/carblock/internal/server/services"
)

type profileResponse struct {
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

func toProfileResponse(p *services.Profile) profileResponse {
	return profileResponse{
		ID:            p.User.ID,
		Phone:         p.Phone,
		Name:          p.User.Name,
		Telegram:      p.User.Telegram,
		ShowContacts:  p.User.ShowContacts,
		OwnerType:     p.User.OwnerType,
		OwnerInfo:     p.User.OwnerInfo,
		DepartureTime: p.User.DepartureTime,
		CreatedAt:     p.User.CreatedAt,
	}
}

type blockResponse struct {
	ID           string    `json:"id"`
	BlockerID    string    `json:"blocker_id"`
	BlockerPlate string    `json:"blocker_plate"`
	BlockedPlate string    `json:"blocked_plate"`
	CreatedAt    time.Time `json:"created_at"`
}

func toBlockResponse(b *models.Block) blockResponse {
	return blockResponse{
		ID:           b.ID,
		BlockerID:    b.BlockerID,
		BlockerPlate: b.BlockerPlate,
		BlockedPlate: b.BlockedPlate,
		CreatedAt:    b.CreatedAt,
	}
}

func toBlockResponses(in []*models.Block) []blockResponse {
	result := make([]blockResponse, 0, len(in))
	for _, b := range in {
		result = append(result, toBlockResponse(b))
	}
	return result
}

type blockWithBlockerResponse struct {
	blockResponse
	Blocker              models.PublicProfile `json:"blocker"`
	BlockerOwnerType     string               `json:"blocker_owner_type,omitempty"`
	BlockerOwnerInfo     json.RawMessage      `json:"blocker_owner_info,omitempty"`
	BlockerDepartureTime string               `json:"blocker_departure_time,omitempty"`
}

func toBlockWithBlockerResponses(in []*models.BlockWithBlocker) []blockWithBlockerResponse {
	result := make([]blockWithBlockerResponse, 0, len(in))
	for _, b := range in {
		result = append(result, blockWithBlockerResponse{
			blockResponse:        toBlockResponse(&b.Block),
			Blocker:              b.Blocker,
			BlockerOwnerType:     b.BlockerOwnerType,
			BlockerOwnerInfo:     b.BlockerOwnerInfo,
			BlockerDepartureTime: b.BlockerDepartureTime,
		})
	}
	return result
}

type plateResponse struct {
	ID            string    `json:"id"`
	Plate         string    `json:"plate"`
	IsPrimary     bool      `json:"is_primary"`
	DepartureTime string    `json:"departure_time,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPlateResponse(p *models.UserPlate) plateResponse {
	return plateResponse{
		ID:            p.ID,
		Plate:         p.Plate,
		IsPrimary:     p.IsPrimary,
		DepartureTime: p.DepartureTime,
		CreatedAt:     p.CreatedAt,
	}
}

func toPlateResponses(in []*models.UserPlate) []plateResponse {
	result := make([]plateResponse, 0, len(in))
	for _, p := range in {
		result = append(result, toPlateResponse(p))
	}
	return result
}

type notificationResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

func toNotificationResponses(in []*models.Notification) []notificationResponse {
	result := make([]notificationResponse, 0, len(in))
	for _, n := range in {
		result = append(result, notificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return result
}
