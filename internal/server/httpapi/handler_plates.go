package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListPlates(w http.ResponseWriter, r *http.Request) {
	result, err := s.plates.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlateResponses(result))
}

type addPlateRequest struct {
	Plate         string `json:"plate"`
	DepartureTime string `json:"departure_time"`
}

func (s *Server) handleAddPlate(w http.ResponseWriter, r *http.Request) {
	var req addPlateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	plate, err := s.plates.Add(r.Context(), userIDFrom(r.Context()), req.Plate, req.DepartureTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlateResponse(plate))
}

func (s *Server) handleDeletePlate(w http.ResponseWriter, r *http.Request) {
	if err := s.plates.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPrimaryPlate(w http.ResponseWriter, r *http.Request) {
	if err := s.plates.SetPrimary(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type departureTimeRequest struct {
	DepartureTime string `json:"departure_time"`
}

func (s *Server) handlePlateDepartureTime(w http.ResponseWriter, r *http.Request) {
	var req departureTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	if err := s.plates.UpdateDepartureTime(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req.DepartureTime); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
