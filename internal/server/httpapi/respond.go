package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/carblock/internal/common"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto an HTTP status and a JSON body the
// client can show. Details carry the specific validation message when one
// was attached to the sentinel.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation error", Details: detailOf(err, common.ErrorValidation)})
	case errors.Is(err, common.ErrInvalidCode):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid verification code"})
	case errors.Is(err, common.ErrCodeExpired):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "verification code expired"})
	case errors.Is(err, common.ErrTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "token expired"})
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
	case errors.Is(err, common.ErrorForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody{Error: "already exists"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "server error"})
	}
}

// detailOf extracts the message wrapped around a sentinel, e.g.
// "validation error: invalid plate" yields "invalid plate".
func detailOf(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	if msg == sentinel.Error() {
		return ""
	}
	return msg
}
