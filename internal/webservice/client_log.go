package webservice

// client_log.go relays client platform diagnostics into the server log.

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/walletpass/passd/internal/logger"
)

// HandleClientLog godoc
//
//	@Summary		Relay client diagnostics
//	@Description	Accepts the client platform's diagnostic log payload and
//	@Description	writes it to the server log. Always 200.
//	@Tags			Protocol
//	@Accept			json
//	@Success		200	{string}	string	"logged"
//	@Router			/v1/log [post]
func (s *Service) HandleClientLog(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		reqLogger.Warn("failed to read client log payload", slog.String("error", err.Error()))
		RespondStatusOnly(w, http.StatusOK)
		return
	}
	defer r.Body.Close()

	var payload struct {
		Logs []string `json:"logs"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Logs) > 0 {
		for _, line := range payload.Logs {
			reqLogger.Info("client log", slog.String("message", line))
		}
	} else {
		reqLogger.Info("client log", slog.String("payload", string(body)))
	}

	RespondStatusOnly(w, http.StatusOK)
}
