package httpapi

import "net/http"

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.serverInfo.Info(r.Context()))
}
