package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openpaygo/antifraud/internal/api/problem"
	"github.com/openpaygo/antifraud/internal/result"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError writes an RFC 7807 error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

// RespondFailure maps a failed Result onto the HTTP surface.
func RespondFailure(w http.ResponseWriter, r *http.Request, kind result.FailureKind, message string) {
	status, problemType := failureStatus(kind)
	RespondError(w, r, status, problemType, message)
}

func failureStatus(kind result.FailureKind) (int, string) {
	switch kind {
	case result.KindValidation:
		return http.StatusBadRequest, "validation-failed"
	case result.KindInvalidTransition:
		return http.StatusBadRequest, "invalid-status-transition"
	case result.KindNotFound:
		return http.StatusNotFound, "not-found"
	case result.KindConflict:
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal-server-error"
	}
}
