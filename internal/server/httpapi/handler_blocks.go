package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createBlockRequest struct {
	BlockedPlate  string `json:"blocked_plate"`
	NotifyOwner   bool   `json:"notify_owner"`
	DepartureTime string `json:"departure_time"`
}

func (s *Server) handleCreateBlock(w http.ResponseWriter, r *http.Request) {
	var req createBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	block, err := s.blocks.Create(r.Context(), userIDFrom(r.Context()), req.BlockedPlate, req.NotifyOwner, req.DepartureTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBlockResponse(block))
}

func (s *Server) handleListMyBlocks(w http.ResponseWriter, r *http.Request) {
	result, err := s.blocks.ListMine(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBlockResponses(result))
}

func (s *Server) handleBlocksAgainstMyPlates(w http.ResponseWriter, r *http.Request) {
	result, err := s.blocks.ForMyPlates(r.Context(), userIDFrom(r.Context()), r.URL.Query().Get("my_plate"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBlockWithBlockerResponses(result))
}

func (s *Server) handleDeleteBlock(w http.ResponseWriter, r *http.Request) {
	if err := s.blocks.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkBlockResponse struct {
	IsBlocked bool           `json:"is_blocked"`
	Block     *blockResponse `json:"block,omitempty"`
}

func (s *Server) handleCheckBlock(w http.ResponseWriter, r *http.Request) {
	plate := r.URL.Query().Get("plate")
	if plate == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing plate"})
		return
	}

	result, err := s.blocks.Check(r.Context(), plate)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := checkBlockResponse{IsBlocked: result.IsBlocked}
	if result.Block != nil {
		b := toBlockResponse(result.Block)
		resp.Block = &b
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWarnOwner(w http.ResponseWriter, r *http.Request) {
	if err := s.blocks.WarnOwner(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
