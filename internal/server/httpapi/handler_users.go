package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/carblock/internal/server/models"
)

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	profile, err := s.users.Profile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

type updateMeRequest struct {
	Name          *string         `json:"name"`
	Telegram      *string         `json:"telegram"`
	ShowContacts  *bool           `json:"show_contacts"`
	OwnerType     *string         `json:"owner_type"`
	OwnerInfo     json.RawMessage `json:"owner_info"`
	DepartureTime *string         `json:"departure_time"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	profile, err := s.users.Update(r.Context(), userIDFrom(r.Context()), &models.UpdateUser{
		Name:          req.Name,
		Telegram:      req.Telegram,
		ShowContacts:  req.ShowContacts,
		OwnerType:     req.OwnerType,
		OwnerInfo:     req.OwnerInfo,
		DepartureTime: req.DepartureTime,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleSetPushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	if err := s.users.SetPushToken(r.Context(), userIDFrom(r.Context()), req.Token); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserByPlate(w http.ResponseWriter, r *http.Request) {
	plate := r.URL.Query().Get("plate")
	if plate == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing plate"})
		return
	}

	profile, err := s.users.ByPlate(r.Context(), plate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
