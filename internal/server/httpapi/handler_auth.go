package httpapi

import (
	"encoding/json"
	"net/http"
)

type startAuthRequest struct {
	Phone string `json:"phone"`
}

type startAuthResponse struct {
	Code      string `json:"code,omitempty"`
	ExpiresIn int    `json:"expires_in"`
}

func (s *Server) handleAuthStart(w http.ResponseWriter, r *http.Request) {
	var req startAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	code, expiresIn, err := s.auth.StartAuth(r.Context(), req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startAuthResponse{Code: code, ExpiresIn: int(expiresIn.Seconds())})
}

type verifyAuthRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type authResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	IsNew  bool   `json:"is_new,omitempty"`
}

func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	result, err := s.auth.VerifyAuth(r.Context(), req.Phone, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, UserID: result.UserID, IsNew: result.IsNew})
}

type refreshRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return
	}

	result, err := s.auth.Refresh(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, UserID: result.UserID})
}
