package handlers

import (
	"context"
	"net/http"

	"github.com/walletpass/passd/internal/webservice"
)

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth godoc
//
//	@Summary	Liveness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Router		/health [get]
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	webservice.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// ReadinessChecker reports database connectivity.
type ReadinessChecker interface {
	IsDatabaseRunning(ctx context.Context) (bool, error)
}

// HandleReadiness reports whether the service can reach its database.
//
//	@Summary	Readiness probe
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Failure	503	{object}	healthResponse
//	@Router		/ready [get]
func HandleReadiness(db ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := db.IsDatabaseRunning(r.Context())
		if err != nil || !ok {
			webservice.RespondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "database unavailable"})
			return
		}
		webservice.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "ready"})
	}
}
