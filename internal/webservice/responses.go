package webservice

// responses.go maps engine errors to protocol responses and provides the
// JSON response helpers shared by the protocol and admin handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/walletpass/passd/internal/logger"
	"github.com/walletpass/passd/internal/passkit"
)

// errorBody is the JSON body attached to client-fault responses.
// Authorization failures deliberately carry no body at all.
type errorBody struct {
	Message string `json:"message"`
}

// RespondError writes the response for err. The full error is logged
// server-side; clients see only the status class. Every authorization
// failure produces an identical bare 401.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	switch passkit.CodeOf(err) {
	case passkit.ErrCodeUnauthorized:
		reqLogger.Warn("request unauthorized", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusUnauthorized)
	case passkit.ErrCodeNotFound:
		reqLogger.Warn("resource not found", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusNotFound)
	case passkit.ErrCodeValidation:
		reqLogger.Warn("invalid request", slog.String("error", err.Error()))
		RespondWithJSON(w, http.StatusBadRequest, errorBody{Message: err.Error()})
	case passkit.ErrCodeDependency:
		reqLogger.Error("dependency failure", slog.String("error", err.Error()))
		RespondWithJSON(w, http.StatusServiceUnavailable, errorBody{Message: "temporarily unavailable"})
	default:
		reqLogger.Error("internal error", slog.String("error", err.Error()))
		RespondWithJSON(w, http.StatusInternalServerError, errorBody{Message: "internal error"})
	}
}

// RespondWithJSON sends payload with the given status code.
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// Headers already written; just log.
			slog.Error("failed to encode JSON response",
				slog.String("error", err.Error()))
		}
	}
}

// RespondStatusOnly sends a response with only a status code.
func RespondStatusOnly(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}
